// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import "fmt"

// replace.go adapts rudd's replace.go: a VariableMap renames variables
// inside a diagram, and rebuilding the result in the correct order is
// handled by a small recursive "correctify" pass (rudd's own term for the
// step that restores the ordering invariant after a substitution lands a
// variable below where its, now remapped, children sit).

var nextVarMapID uint32

// VariableMap is a variable renaming, built by CreateVariableMap and
// consumed by Replace.
type VariableMap struct {
	mgr  *Manager
	id   uint32
	to   map[int32]int32
}

// CreateVariableMap builds a VariableMap sending from[i] to to[i] for every
// i. from must not repeat a rank, and to must be a valid width (same
// length as from).
func (b *Manager) CreateVariableMap(from, to []int32) (*VariableMap, error) {
	if len(from) != len(to) {
		return nil, fmt.Errorf("CreateVariableMap: %w: from/to length mismatch", ErrInvalidArgument)
	}
	m := make(map[int32]int32, len(from))
	for i, f := range from {
		if f < 0 || f >= b.varnum {
			return nil, fmt.Errorf("CreateVariableMap: %w: rank %d", ErrUnknownVariable, f)
		}
		if _, dup := m[f]; dup {
			return nil, fmt.Errorf("CreateVariableMap: %w: rank %d repeated", ErrInvalidArgument, f)
		}
		if to[i] < 0 {
			return nil, fmt.Errorf("CreateVariableMap: %w: negative target rank", ErrInvalidArgument)
		}
		m[f] = to[i]
	}
	nextVarMapID++
	return &VariableMap{mgr: b, id: nextVarMapID, to: m}, nil
}

// CreateVariableMapVectors builds a VariableMap sending each bit of from[i]
// to the corresponding bit of to[i], enforcing spec.md §4.2's rank
// compatibility rule: from[i] and to[i] must share the same bit-width, or
// the mapping as a whole is rejected with ErrTypeMismatch.
func (b *Manager) CreateVariableMapVectors(from, to []*BitVector) (*VariableMap, error) {
	if len(from) != len(to) {
		return nil, fmt.Errorf("CreateVariableMapVectors: %w: from/to length mismatch", ErrInvalidArgument)
	}
	var fromRanks, toRanks []int32
	for i := range from {
		if from[i].Width() != to[i].Width() {
			return nil, fmt.Errorf("CreateVariableMapVectors: %w: vector %d has width %d, image has width %d", ErrTypeMismatch, i, from[i].Width(), to[i].Width())
		}
		for bit := 0; bit < from[i].Width(); bit++ {
			fr, err := b.Variable(from[i].bits[bit])
			if err != nil {
				return nil, err
			}
			tr, err := b.Variable(to[i].bits[bit])
			if err != nil {
				return nil, err
			}
			fromRanks = append(fromRanks, fr)
			toRanks = append(toRanks, tr)
		}
	}
	return b.CreateVariableMap(fromRanks, toRanks)
}

func (vm *VariableMap) lookup(v int32) int32 {
	if nv, ok := vm.to[v]; ok {
		return nv
	}
	return v
}

// Replace returns f with every variable named in vm's domain renamed to its
// image, restoring the variable ordering invariant as needed.
func (b *Manager) Replace(f Handle, vm *VariableMap) Handle {
	if err := b.checkOwn(f); err != nil {
		return b.seterror(err, "Replace")
	}
	if vm.mgr != b {
		return b.seterror(ErrWrongManager, "Replace")
	}
	defer b.enter()()
	res, err := b.replace(f.edge(), vm)
	if err != nil {
		return b.seterror(err, "Replace")
	}
	return b.newHandle(res)
}

func (b *Manager) replace(f edge, vm *VariableMap) (edge, error) {
	if f.isConst() {
		return f, nil
	}
	pf := packEdge(f)
	if res, ok := b.cache.lookup(opReplace, pf, int32(vm.id), 0); ok {
		return res, nil
	}
	n := &b.pool.nodes[f.idx]
	lo := n.low.withComp(f.comp)
	hi := n.high.withComp(f.comp)
	low, err := b.replace(lo, vm)
	if err != nil {
		return edge{}, err
	}
	high, err := b.replace(hi, vm)
	if err != nil {
		return edge{}, err
	}
	newvar := vm.lookup(n.level)
	res, err := b.correctify(newvar, low, high)
	if err != nil {
		return edge{}, err
	}
	b.cache.insert(opReplace, pf, int32(vm.id), 0, res)
	return res, nil
}

// correctify builds a node deciding on level with the given low/high
// children, pushing level below the children's own levels whenever the
// substitution that produced low/high mapped level to a rank that no
// longer precedes them.
func (b *Manager) correctify(level int32, low, high edge) (edge, error) {
	ll, lh := b.pool.levelOf(low), b.pool.levelOf(high)
	if level < ll && level < lh {
		return b.insertEdge(level, 0, low, high)
	}
	v := ll
	if lh < v {
		v = lh
	}
	low0, low1 := b.cofactor(low, v)
	high0, high1 := b.cofactor(high, v)
	newlow, err := b.correctify(level, low0, high0)
	if err != nil {
		return edge{}, err
	}
	newhigh, err := b.correctify(level, low1, high1)
	if err != nil {
		return edge{}, err
	}
	return b.insertEdge(v, 0, newlow, newhigh)
}

// Compose substitutes variable rank with the function g everywhere it
// appears in f, generalizing Replace to an arbitrary replacement function
// rather than just another variable.
func (b *Manager) Compose(f Handle, rank int32, g Handle) Handle {
	if err := b.checkOwn(f); err != nil {
		return b.seterror(err, "Compose")
	}
	if err := b.checkOwn(g); err != nil {
		return b.seterror(err, "Compose")
	}
	defer b.enter()()
	res, err := b.compose(f.edge(), rank, g.edge())
	if err != nil {
		return b.seterror(err, "Compose")
	}
	return b.newHandle(res)
}

func (b *Manager) compose(f edge, rank int32, g edge) (edge, error) {
	if f.isConst() {
		return f, nil
	}
	fv := b.pool.levelOf(f)
	if fv > rank {
		return f, nil
	}
	pf, pg := packEdge(f), packEdge(g)
	if res, ok := b.cache.lookup(opCompose, pf, pg, rank); ok {
		return res, nil
	}
	var res edge
	var err error
	if fv < rank {
		f0, f1 := b.cofactor(f, fv)
		low, e1 := b.compose(f0, rank, g)
		if e1 != nil {
			return edge{}, e1
		}
		high, e2 := b.compose(f1, rank, g)
		if e2 != nil {
			return edge{}, e2
		}
		res, err = b.insertEdge(fv, 0, low, high)
	} else {
		f0, f1 := b.cofactor(f, fv)
		res, err = b.ite(g, f1, f0)
	}
	if err != nil {
		return edge{}, err
	}
	b.cache.insert(opCompose, pf, pg, rank, res)
	return res, nil
}
