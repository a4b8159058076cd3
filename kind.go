// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

// levelSentinel is the level attributed to the terminal node. It is chosen
// far above any representable variable rank so that ordering comparisons
// ("is this child past the point we care about?") work without special
// casing the terminal everywhere.
const levelSentinel int32 = 1 << 30

// slot is the physical representation of one node in a nodePool, shared by
// both node kinds. BDDKind never sets skip to anything but zero; CBDDKind
// uses it to record how many additional ranks after level are collapsed
// into this single node before the next real decision, taken at
// level+skip+1 (see kind.chain and DESIGN.md for the construction rule).
//
// A slot with level < 0 is a free slot; low.idx then holds the index of the
// next free slot (or 0 if it is the last one), mirroring the free list used
// by rudd's hudd/buddy node tables.
type slot struct {
	level  int32
	skip   int32
	low    edge
	high   edge // invariant: high.comp == false once the slot is inserted
	refcou int32
}

func (s *slot) isFree() bool { return s.level < 0 }

// nodeKey is the unique-table key: the full tuple that identifies a node.
// Two requests for the same tuple must always yield the same index — this
// is the hash-consing (unique table) guarantee of spec.md's NodePool.
type nodeKey struct {
	level int32
	skip  int32
	low   edge
	high  edge
}

// nodeKind is the strategy a Manager is parameterized over (spec.md's
// "Dynamic dispatch on node kind is eliminated by parameterising the
// manager on a concrete node-kind strategy"). Unlike rudd, which selects
// between two alternative *entire* table implementations with build tags
// fixed at compile time, nodeKind is a small interface value chosen at
// Manager construction, so a single program may open both a BDD-backed and
// a CBDD-backed manager.
type nodeKind interface {
	// name identifies the kind for Stats() and error messages.
	name() string
	// maxVar bounds the representable variable rank space; exceeding it
	// raises ErrCapacityExhausted. BDD uses 21 bits (rudd's own _MAXVAR);
	// CBDD uses 15 bits because the skip count shares the variable's word
	// budget (spec.md §6 "Limits").
	maxVar() int32
	// chain is called by nodePool.insert after the standard low==high
	// reduction, once the incoming edges are load-bearing (low != high). It
	// may enlarge skip and repoint low/high, absorbing either a shared
	// deeper decision rank (when low and high are both internal nodes that
	// start deciding at the same level) or a run of same-branching
	// constant-terminated nodes (an AND/OR staircase, spec.md line 3's "a
	// long run of same-branching variables collapses into one node") into
	// one combined node (spec.md §4.1's "chain merge"). BDDKind is a no-op.
	chain(p *nodePool, level, skip int32, low, high edge) (int32, edge, edge)
}

type bddNodeKind struct{}

func (bddNodeKind) name() string  { return "BDD" }
func (bddNodeKind) maxVar() int32 { return 0x1FFFFF } // 21 bits, as in rudd's _MAXVAR
func (bddNodeKind) chain(_ *nodePool, _, skip int32, low, high edge) (int32, edge, edge) {
	return skip, low, high
}

type cbddNodeKind struct{}

func (cbddNodeKind) name() string  { return "CBDD" }
func (cbddNodeKind) maxVar() int32 { return 0x7FFF } // 15 bits, shared with the skip count

// chain absorbs two kinds of runs into skip. First, a staircase: if high (or,
// symmetrically, low) points at a node one rank below that shares this
// node's other child verbatim, that child is a pass-through and can be
// skipped over — this is what lets a chain of ANDs (or ORs) terminating in a
// constant collapse into a single node, since the intermediate nodes of such
// a chain always share either their low or their high child with the next
// link. Second, once no more staircase links are available, the pre-existing
// rule: if what remains of low and high are both internal nodes that first
// decide at the same deeper rank, the gap before that rank is free and is
// absorbed too.
func (cbddNodeKind) chain(p *nodePool, level, skip int32, low, high edge) (int32, edge, edge) {
	for {
		if !high.isConst() {
			h := &p.nodes[high.idx]
			if h.level == level+skip+1 && h.low == low {
				skip, high = skip+1+h.skip, h.high
				continue
			}
		}
		if !low.isConst() {
			l := &p.nodes[low.idx]
			if l.level == level+skip+1 && l.high == high {
				skip, low = skip+1+l.skip, l.low
				continue
			}
		}
		break
	}
	if !low.isConst() && !high.isConst() {
		ln := p.levelOf(low)
		hn := p.levelOf(high)
		if ln == hn && ln > level+skip+1 {
			skip = ln - level - 1
		}
	}
	return skip, low, high
}

// BDDKind selects the classic reduced-ordered BDD node representation.
func BDDKind() nodeKind { return bddNodeKind{} }

// CBDDKind selects the Chain-BDD node representation, whose internal nodes
// carry a skip count collapsing a run of same-branching variables into one
// node.
func CBDDKind() nodeKind { return cbddNodeKind{} }
