// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"runtime"
	"sync"
)

// edge is the internal, transient representation of a reference to a node:
// a node-pool index plus a complement bit. Unlike Handle, edge carries no
// manager identity and is not tracked by the HandleTable; it only lives on
// the Go stack during recursive algorithms.
//
// The canonical form of a node enforces that the high child's complement
// bit is always false (see nodePool.insert); and a complemented edge to the
// terminal represents False, an uncomplemented one True. This gives O(1)
// negation: flipping comp alone always yields a valid, already-canonical
// edge, since negating a node only ever changes whether its low/high
// children are read complemented, never which physical node is shared.
type edge struct {
	idx  int32
	comp bool
}

func (e edge) not() edge        { return edge{e.idx, !e.comp} }
func (e edge) isConst() bool    { return e.idx == 0 }
func (e edge) isTrue() bool     { return e.idx == 0 && !e.comp }
func (e edge) isFalse() bool    { return e.idx == 0 && e.comp }
func (e edge) withComp(c bool) edge {
	if c {
		return e.not()
	}
	return e
}

// handleRef is the boxed, heap-allocated cell a Handle points to. Exactly
// one handleRef exists per live external reference; its identity (not its
// contents) is what the HandleTable tracks and what runtime.SetFinalizer
// watches, mirroring the nodefinalizer/retnode trick rudd's hkernel.go uses
// to tie reference counts to the garbage collector instead of requiring the
// caller to call a Release method.
type handleRef struct {
	idx int32
	mgr *Manager
}

// Handle is an opaque reference to a node (a boolean function) owned by a
// Manager. The zero Handle is not a valid reference to any function; it is
// only ever returned alongside a recorded error (see Manager.Errored).
//
// Handles are safe to copy and store in maps and slices, but are NOT
// comparable with == across separate calls: use Equal instead, since two
// Handles denoting the same hash-consed function can box distinct
// handleRefs (see Equal's doc comment).
type Handle struct {
	ref  *handleRef
	comp bool
}

func (h Handle) isZero() bool { return h.ref == nil }

// edge converts a Handle to the transient recursion representation used
// internally; it does not touch the HandleTable.
func (h Handle) edge() edge {
	if h.ref == nil {
		return edge{}
	}
	return edge{h.ref.idx, h.comp}
}

// handleTable is the registry of outstanding external handles for one
// Manager. Each live handleRef is registered here so the garbage collector
// can find and rewrite it during compaction; entries are removed
// automatically when the corresponding Handle becomes unreachable to the Go
// garbage collector, via the finalizer installed in newHandle.
//
// Finalizers run on a goroutine the Go runtime schedules on its own, fully
// asynchronously with respect to whatever goroutine is driving the Manager
// (rudd's own hudd.go faces the same hazard for its nodefinalizer/retnode
// refcounting and guards every access to its node table, including the
// finalizer callback itself, with a sync.RWMutex — see hudd.go's marknode/
// unmarknode/ismarked and its finalizer assignment). mu here is that same
// guard, scoped to just the live set, so a finalizer's delete can never race
// collect's range-and-mutate pass over the same map.
type handleTable struct {
	mu   sync.Mutex
	live map[*handleRef]struct{}
}

func newHandleTable() *handleTable {
	return &handleTable{live: make(map[*handleRef]struct{})}
}

// newHandle registers e as a fresh external reference and arms a finalizer
// that deregisters it once the returned Handle (and any copies sharing its
// handleRef) is no longer reachable. Node indices referenced only by
// pending cache entries or by edges mid-recursion are not registered here;
// only the HandleTable entries count as GC roots.
func (b *Manager) newHandle(e edge) Handle {
	if e.idx == 0 {
		return Handle{ref: b.constRef, comp: e.comp}
	}
	ref := &handleRef{idx: e.idx, mgr: b}
	b.handles.mu.Lock()
	b.handles.live[ref] = struct{}{}
	b.handles.mu.Unlock()
	runtime.SetFinalizer(ref, func(r *handleRef) {
		b.handles.mu.Lock()
		delete(b.handles.live, r)
		b.handles.mu.Unlock()
	})
	return Handle{ref: ref, comp: e.comp}
}

// True returns the constant function 1, shared across every operation on
// this manager.
func (b *Manager) True() Handle { return Handle{ref: b.constRef, comp: false} }

// False returns the constant function 0.
func (b *Manager) False() Handle { return Handle{ref: b.constRef, comp: true} }

// IsTrue reports whether h is the constant function 1.
func (h Handle) IsTrue() bool { return !h.isZero() && h.ref.idx == 0 && !h.comp }

// IsFalse reports whether h is the constant function 0.
func (h Handle) IsFalse() bool { return !h.isZero() && h.ref.idx == 0 && h.comp }

// IsConstant reports whether h is either constant function.
func (h Handle) IsConstant() bool { return !h.isZero() && h.ref.idx == 0 }

// Equal reports whether h and other denote the same Boolean function in the
// same manager. Because newHandle boxes every non-constant edge in a fresh
// handleRef, two Handles produced by separate calls that happen to hash-cons
// onto the same node (the whole point of the unique table) are NOT "=="
// comparable as Go values: "==" compares the boxes, not their contents. Use
// Equal instead, mirroring how rudd's Set.Equal dereferences its Node
// pointers rather than comparing them directly.
func (h Handle) Equal(other Handle) bool {
	if h.isZero() || other.isZero() {
		return h.isZero() == other.isZero()
	}
	return h.ref.mgr == other.ref.mgr && h.ref.idx == other.ref.idx && h.comp == other.comp
}

// Equal is the Manager-qualified form of Handle.Equal, additionally checking
// that both handles are owned by b.
func (b *Manager) Equal(h, other Handle) bool {
	return b.own(h) && b.own(other) && h.Equal(other)
}
