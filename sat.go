// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"fmt"
	"math/big"
)

// sat.go adapts rudd's satcount/allsat machinery to the complement-edge,
// skip-aware representation: every place the teacher walks one level at a
// time, we instead account for the span a node's skip (and, at the edges
// of the function, the variables above/below any decision at all) covers.

// Assignment is a satisfying (possibly partial) variable assignment
// produced by Sat or AllSat. Variables this manager allocated but that do
// not appear in values are don't-cares: either truth value for them
// preserves satisfiability.
type Assignment struct {
	mgr    *Manager
	values map[int32]bool
	subset map[int32]bool // nil = unrestricted, every allocated variable decodable
}

// Get returns the value assigned to rank, defaulting to false if rank is a
// don't-care. If the assignment was produced by SatSubset, querying a rank
// outside the requested subset raises ErrUnknownVariable instead.
func (a *Assignment) Get(rank int32) (bool, error) {
	if a.subset != nil {
		if _, ok := a.subset[rank]; !ok {
			return false, fmt.Errorf("Get(%d): %w", rank, ErrUnknownVariable)
		}
	}
	return a.values[rank], nil
}

// Decided reports the value assigned to rank and whether it was actually
// decided by the search (as opposed to being an unconstrained don't-care
// defaulted to false), ignoring any subset restriction.
func (a *Assignment) Decided(rank int32) (value, decided bool) {
	v, ok := a.values[rank]
	return v, ok
}

// Int decodes v's bits under this assignment, treating any don't-care bit
// as 0.
func (a *Assignment) Int(v *BitVector) (uint64, error) {
	if len(v.bits) > 64 {
		return 0, fmt.Errorf("Int: %w: width %d exceeds 64 bits", ErrInvalidArgument, len(v.bits))
	}
	var out uint64
	for i, h := range v.bits {
		if a.eval(h) {
			out |= 1 << uint(i)
		}
	}
	return out, nil
}

// Bytes decodes v's bits under this assignment as a little-endian byte
// slice, for widths that do not fit a uint64 (spec.md §4.6's "byte[] for
// widths not covered by a primitive"). Any don't-care bit decodes as 0.
func (a *Assignment) Bytes(v *BitVector) []byte {
	out := make([]byte, (len(v.bits)+7)/8)
	for i, h := range v.bits {
		if a.eval(h) {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// eval resolves an arbitrary handle under the assignment by walking it from
// the root, defaulting any variable the assignment left undecided to
// false, the same convention AllSat uses when it reports a don't-care.
func (a *Assignment) eval(h Handle) bool {
	e := h.edge()
	for !e.isConst() {
		n := &a.mgr.pool.nodes[e.idx]
		val := a.values[n.level]
		if val {
			e = n.high.withComp(e.comp)
		} else {
			e = n.low.withComp(e.comp)
		}
	}
	return e.isTrue()
}

// Sat finds one satisfying assignment for f by greedily following, at each
// node, the low branch whenever it is not the constant False (preferring 0
// for any variable where both branches would work) and the high branch
// otherwise, and returns nil (with a nil error) if f is unsatisfiable.
func (b *Manager) Sat(f Handle) (*Assignment, error) {
	if err := b.checkOwn(f); err != nil {
		return nil, err
	}
	if f.IsFalse() {
		return nil, nil
	}
	a := &Assignment{mgr: b, values: map[int32]bool{}}
	e := f.edge()
	for !e.isConst() {
		n := &b.pool.nodes[e.idx]
		lo := n.low.withComp(e.comp)
		hi := n.high.withComp(e.comp)
		// Prefer low on ties (both branches satisfiable) so unconstrained
		// variables default to 0, per spec.md §4.6.
		if !lo.isFalse() {
			a.values[n.level] = false
			e = lo
		} else {
			a.values[n.level] = true
			e = hi
		}
	}
	return a, nil
}

// SatSubset is Sat restricted to decoding a fixed set of variables: the
// returned Assignment still witnesses the whole formula, but Get rejects
// any rank outside subset with ErrUnknownVariable, per spec.md §4.6's
// "Sat(f, subset)".
func (b *Manager) SatSubset(f Handle, subset []int32) (*Assignment, error) {
	a, err := b.Sat(f)
	if err != nil || a == nil {
		return a, err
	}
	s := make(map[int32]bool, len(subset))
	for _, r := range subset {
		s[r] = true
	}
	a.subset = s
	return a, nil
}

// AllSat enumerates every satisfying assignment of f as a sequence of
// partial (don't-care-preserving) assignments. The number of assignments
// returned can be exponential in the variable count; callers working with
// wide functions should prefer Satcount unless the witnesses themselves
// are needed.
func (b *Manager) AllSat(f Handle) ([]*Assignment, error) {
	if err := b.checkOwn(f); err != nil {
		return nil, err
	}
	var out []*Assignment
	partial := map[int32]bool{}
	var walk func(e edge)
	walk = func(e edge) {
		if e.isFalse() {
			return
		}
		if e.isTrue() {
			cp := make(map[int32]bool, len(partial))
			for k, v := range partial {
				cp[k] = v
			}
			out = append(out, &Assignment{mgr: b, values: cp})
			return
		}
		n := &b.pool.nodes[e.idx]
		lo := n.low.withComp(e.comp)
		hi := n.high.withComp(e.comp)
		partial[n.level] = false
		walk(lo)
		partial[n.level] = true
		walk(hi)
		delete(partial, n.level)
	}
	walk(f.edge())
	return out, nil
}

// Satcount returns the number of satisfying assignments of f over every
// variable this manager has allocated, including ones f does not mention
// at all (a don't-care variable doubles the count). It uses big.Int
// because the count grows as 2^VariableCount.
func (b *Manager) Satcount(f Handle) (*big.Int, error) {
	if err := b.checkOwn(f); err != nil {
		return nil, err
	}
	memo := make(map[edge]*big.Int)
	e := f.edge()
	total := new(big.Int).Set(b.satcountRec(e, memo))
	total.Mul(total, pow2(int(b.gapStart(e))))
	return total, nil
}

func (b *Manager) gapStart(e edge) int32 {
	if e.isConst() {
		return b.varnum
	}
	return b.pool.nodes[e.idx].level
}

func (b *Manager) satcountRec(e edge, memo map[edge]*big.Int) *big.Int {
	if e.isFalse() {
		return big.NewInt(0)
	}
	if e.isTrue() {
		return big.NewInt(1)
	}
	if v, ok := memo[e]; ok {
		return v
	}
	n := &b.pool.nodes[e.idx]
	lo := n.low.withComp(e.comp)
	hi := n.high.withComp(e.comp)
	start := n.level + n.skip + 1

	loCount := new(big.Int).Set(b.satcountRec(lo, memo))
	loCount.Mul(loCount, pow2(b.gap(start, lo)))
	hiCount := new(big.Int).Set(b.satcountRec(hi, memo))
	hiCount.Mul(hiCount, pow2(b.gap(start, hi)))

	total := new(big.Int).Add(loCount, hiCount)
	memo[e] = total
	return total
}

func (b *Manager) gap(start int32, child edge) int {
	if child.isConst() {
		return int(b.varnum) - int(start)
	}
	return int(b.pool.nodes[child.idx].level - start)
}

func pow2(n int) *big.Int {
	if n <= 0 {
		return big.NewInt(1)
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(n))
}
