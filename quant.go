// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import "fmt"

// quant.go adapts rudd's quant.go/appquant.go: quantification walks a
// "cube" — a conjunction of positive literals, itself a Handle — in lock
// step with the function being quantified, so the set of variables to
// eliminate is represented the same way as any other boolean function
// instead of as a side channel (a []int32, a bitset, ...).

// Cube builds the conjunction of the single variables named by ranks, in
// the representation Exists, Forall and AppEx expect for their
// quantification set.
func (b *Manager) Cube(ranks []int32) (Handle, error) {
	res := b.True()
	for _, r := range ranks {
		h, err := b.Ithvar(r)
		if err != nil {
			return Handle{}, err
		}
		res = b.And(res, h)
	}
	if b.Errored() {
		return Handle{}, fmt.Errorf("%s", b.Error())
	}
	return res, nil
}

// CreateVariableSet is an alias for Cube: it builds the conjunction-of-
// literals representation Exists, Forall and AppEx expect for the set of
// variables to quantify over.
func (b *Manager) CreateVariableSet(ranks []int32) (Handle, error) { return b.Cube(ranks) }

// cubeChild returns the next cube to process once its own head variable
// has been consumed.
func (b *Manager) cubeChild(cube edge) edge {
	if cube.isConst() {
		return cube
	}
	return b.pool.nodes[cube.idx].high.withComp(cube.comp)
}

// Exists returns ∃cube. f: f with every variable in cube existentially
// quantified out.
func (b *Manager) Exists(f, cube Handle) Handle {
	if err := b.checkOwn(f); err != nil {
		return b.seterror(err, "Exists")
	}
	if err := b.checkOwn(cube); err != nil {
		return b.seterror(err, "Exists")
	}
	defer b.enter()()
	res, err := b.quant(f.edge(), cube.edge(), opExist)
	if err != nil {
		return b.seterror(err, "Exists")
	}
	return b.newHandle(res)
}

// Forall returns ∀cube. f: f with every variable in cube universally
// quantified out.
func (b *Manager) Forall(f, cube Handle) Handle {
	if err := b.checkOwn(f); err != nil {
		return b.seterror(err, "Forall")
	}
	if err := b.checkOwn(cube); err != nil {
		return b.seterror(err, "Forall")
	}
	defer b.enter()()
	res, err := b.quant(f.edge(), cube.edge(), opForall)
	if err != nil {
		return b.seterror(err, "Forall")
	}
	return b.newHandle(res)
}

func (b *Manager) quant(f, cube edge, tag opTag) (edge, error) {
	if cube.isTrue() {
		return f, nil
	}
	pf, pc := packEdge(f), packEdge(cube)
	if res, ok := b.cache.lookup(tag, pf, pc, 0); ok {
		return res, nil
	}

	fv := b.pool.levelOf(f)
	cv := b.pool.levelOf(cube)

	var res edge
	var err error
	switch {
	case fv < cv:
		f0, f1 := b.cofactor(f, fv)
		low, e1 := b.quant(f0, cube, tag)
		if e1 != nil {
			return edge{}, e1
		}
		high, e2 := b.quant(f1, cube, tag)
		if e2 != nil {
			return edge{}, e2
		}
		res, err = b.insertEdge(fv, 0, low, high)
	case fv > cv:
		res, err = b.quant(f, b.cubeChild(cube), tag)
	default:
		f0, f1 := b.cofactor(f, fv)
		next := b.cubeChild(cube)
		low, e1 := b.quant(f0, next, tag)
		if e1 != nil {
			return edge{}, e1
		}
		high, e2 := b.quant(f1, next, tag)
		if e2 != nil {
			return edge{}, e2
		}
		if tag == opExist {
			res, err = b.ite(low, trueConst, high)
		} else {
			res, err = b.ite(low, high, falseConst)
		}
	}
	if err != nil {
		return edge{}, err
	}
	b.cache.insert(tag, pf, pc, 0, res)
	return res, nil
}

var trueConst = edge{0, false}
var falseConst = edge{0, true}

// AppOp names the binary connective AppEx fuses with existential
// quantification.
type AppOp int

const (
	// AppAnd fuses And with the quantification, the classical relational
	// product used to compose transition relations.
	AppAnd AppOp = iota
	AppOr
	AppXor
)

// AppEx computes ∃cube. (f op g) without ever materializing the full
// (f op g) first, following rudd's appquant.go. This matters because the
// intermediate f op g can be much larger than the final quantified result.
func (b *Manager) AppEx(f, g Handle, op AppOp, cube Handle) Handle {
	if err := b.checkOwn(f); err != nil {
		return b.seterror(err, "AppEx")
	}
	if err := b.checkOwn(g); err != nil {
		return b.seterror(err, "AppEx")
	}
	if err := b.checkOwn(cube); err != nil {
		return b.seterror(err, "AppEx")
	}
	defer b.enter()()
	res, err := b.appex(f.edge(), g.edge(), cube.edge(), op)
	if err != nil {
		return b.seterror(err, "AppEx")
	}
	return b.newHandle(res)
}

func (b *Manager) appex(f, g, cube edge, op AppOp) (edge, error) {
	pf, pg := packEdge(f), packEdge(g)
	pc := packEdge(cube)*8 + int32(op)
	if res, ok := b.cache.lookup(opAppEx, pf, pg, pc); ok {
		return res, nil
	}

	v := b.pool.levelOf(f)
	if lv := b.pool.levelOf(g); lv < v {
		v = lv
	}
	cv := b.pool.levelOf(cube)
	if cube.isTrue() {
		res, err := b.applyOp(op, f, g)
		if err != nil {
			return edge{}, err
		}
		return res, nil
	}
	if cv < v {
		v = cv
	}

	f0, f1 := b.cofactor(f, v)
	g0, g1 := b.cofactor(g, v)

	var res edge
	var err error
	if cv == v {
		next := b.cubeChild(cube)
		low, e1 := b.appex(f0, g0, next, op)
		if e1 != nil {
			return edge{}, e1
		}
		high, e2 := b.appex(f1, g1, next, op)
		if e2 != nil {
			return edge{}, e2
		}
		res, err = b.ite(low, trueConst, high)
	} else {
		low, e1 := b.appex(f0, g0, cube, op)
		if e1 != nil {
			return edge{}, e1
		}
		high, e2 := b.appex(f1, g1, cube, op)
		if e2 != nil {
			return edge{}, e2
		}
		res, err = b.insertEdge(v, 0, low, high)
	}
	if err != nil {
		return edge{}, err
	}
	b.cache.insert(opAppEx, pf, pg, pc, res)
	return res, nil
}

func (b *Manager) applyOp(op AppOp, f, g edge) (edge, error) {
	switch op {
	case AppAnd:
		return b.ite(f, g, falseConst)
	case AppOr:
		return b.ite(f, trueConst, g)
	case AppXor:
		return b.ite(f, g.not(), g)
	default:
		return edge{}, fmt.Errorf("AppEx: %w: unknown operator", ErrInvalidArgument)
	}
}
