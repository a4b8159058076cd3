// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package chainbdd implements Binary Decision Diagrams (BDD) and Chain-BDD
(CBDD) graphs, two canonical encodings of Boolean functions over a fixed set
of variables, or equivalently, of sets of Boolean vectors with a fixed size.

Basics

Each Manager has a fixed number of variables, grown over time with the
variable compiler (CreateBool, CreateIntN, ...); each variable is identified
by an (integer) rank in the interval [0..Varnum), the smallest rank sitting at
the top of the ordering. A single process may open multiple independent
Managers, possibly with different node kinds or variable counts; handles from
one manager are never valid in another (see ErrWrongManager).

Most operations return a Handle: an opaque reference carrying a node index and
a complement bit. Two handles are equal, in the sense of Manager.Equal, if and
only if they denote the same Boolean function — this is the hash-consing
(unique table) guarantee that makes And/Or/Iff idempotent structural
comparisons rather than semantic ones.

Node kinds

A Manager is built over one of two node-kind strategies, selected at
construction with BDDKind or CBDDKind:

  - BDDKind produces classic reduced-ordered BDD nodes {var, low, high}.
  - CBDDKind produces Chain-BDD nodes {var, skip, low, high}, where a run of
    skip+1 variables on which the function does not discriminate collapses
    into a single node.

Both kinds share the same generic traversal (apply, quantification,
replacement, GC); the kind only changes how nodes are built and decoded.

Automatic memory management

The library is written in pure Go. We take care of node-table resizing and
garbage collection directly in the library, but outstanding references to
nodes made by user code (Handle values) are registered in a HandleTable and
automatically deregistered by the Go runtime's finalizers when a Handle value
becomes unreachable — callers never need to explicitly release a Handle.

Use of build tags

Stats reports cache hit and miss counts and garbage-collection cycles in
every build. Compiling with the `debug` build tag turns on extra logging
(errors, table growth and collections); the PrintDebug option logs table
growth and collections in any build.
*/
package chainbdd
