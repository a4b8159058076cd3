// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

// apply.go implements the universal if-then-else primitive every other
// boolean operation on a Manager is expressed in terms of, following
// rudd's own operations.go where And/Or/Xor/Imp are all thin wrappers
// around a single recursive ite.

// Not returns the negation of h. Because every node's canonical form fixes
// the high child's complement bit to false, negating a handle is exactly
// flipping its own complement bit: no recursion, no cache, no new nodes.
func (b *Manager) Not(h Handle) Handle {
	if err := b.checkOwn(h); err != nil {
		return b.seterror(err, "Not")
	}
	return b.newHandle(h.edge().not())
}

// And returns the conjunction of f and g.
func (b *Manager) And(f, g Handle) Handle { return b.applyIte(f, g, b.constHandle(false)) }

// Or returns the disjunction of f and g.
func (b *Manager) Or(f, g Handle) Handle { return b.applyIte(f, b.constHandle(true), g) }

// Xor returns the exclusive-or of f and g.
func (b *Manager) Xor(f, g Handle) Handle { return b.applyIte(f, b.Not(g), g) }

// Implies returns f ⇒ g.
func (b *Manager) Implies(f, g Handle) Handle { return b.applyIte(f, g, b.constHandle(true)) }

// Iff returns the boolean equivalence of f and g.
func (b *Manager) Iff(f, g Handle) Handle { return b.applyIte(f, g, b.Not(g)) }

func (b *Manager) constHandle(v bool) Handle {
	if v {
		return b.True()
	}
	return b.False()
}

// applyIte validates ownership for a two-argument wrapper before delegating
// to Ite.
func (b *Manager) applyIte(f, g, h Handle) Handle {
	if err := b.checkOwn(f); err != nil {
		return b.seterror(err, "operation")
	}
	if err := b.checkOwn(g); err != nil {
		return b.seterror(err, "operation")
	}
	if err := b.checkOwn(h); err != nil {
		return b.seterror(err, "operation")
	}
	return b.Ite(f, g, h)
}

// Ite returns if f then g else h, the universal ternary connective every
// other boolean operation reduces to.
func (b *Manager) Ite(f, g, h Handle) Handle {
	if err := b.checkOwn(f); err != nil {
		return b.seterror(err, "Ite")
	}
	if err := b.checkOwn(g); err != nil {
		return b.seterror(err, "Ite")
	}
	if err := b.checkOwn(h); err != nil {
		return b.seterror(err, "Ite")
	}
	if b.poisoned {
		return b.poison("Ite: manager is poisoned")
	}
	defer b.enter()()
	res, err := b.ite(f.edge(), g.edge(), h.edge())
	if err != nil {
		return b.seterror(err, "Ite")
	}
	return b.newHandle(res)
}

// ite is the recursive core, operating on the transient edge
// representation and consulting/populating the shared operation cache.
func (b *Manager) ite(f, g, h edge) (edge, error) {
	switch {
	case f.isTrue():
		return g, nil
	case f.isFalse():
		return h, nil
	case g == h:
		return g, nil
	case g.isTrue() && h.isFalse():
		return f, nil
	case g.isFalse() && h.isTrue():
		return f.not(), nil
	}

	// Canonicalize the cache key: Ite(f,g,h) and Ite(!f,h,g) denote the
	// same function, so folding them onto one cache entry doubles the hit
	// rate for free, as rudd's itecache does.
	cf, cg, ch := f, g, h
	if cf.comp {
		cf, cg, ch = cf.not(), ch, cg
	}
	pf, pg, ph := packEdge(cf), packEdge(cg), packEdge(ch)
	if res, ok := b.cache.lookup(opIte, pf, pg, ph); ok {
		return res, nil
	}

	v := b.pool.levelOf(f)
	if lv := b.pool.levelOf(g); lv < v {
		v = lv
	}
	if lv := b.pool.levelOf(h); lv < v {
		v = lv
	}

	f0, f1 := b.cofactor(f, v)
	g0, g1 := b.cofactor(g, v)
	h0, h1 := b.cofactor(h, v)

	low, err := b.ite(f0, g0, h0)
	if err != nil {
		return edge{}, err
	}
	high, err := b.ite(f1, g1, h1)
	if err != nil {
		return edge{}, err
	}
	res, err := b.insertEdge(v, 0, low, high)
	if err != nil {
		return edge{}, err
	}
	b.cache.insert(opIte, pf, pg, ph, res)
	return res, nil
}

// cofactor splits e with respect to variable rank v: if e genuinely decides
// at v, its low/high children are returned (with e's own complement
// applied); otherwise e does not yet depend on v and is returned unchanged
// on both branches. This works identically whether e's node has skip 0 or
// more, because skip never changes which rank the node decides on.
func (b *Manager) cofactor(e edge, v int32) (lo, hi edge) {
	if e.idx == 0 || b.pool.nodes[e.idx].level != v {
		return e, e
	}
	n := &b.pool.nodes[e.idx]
	return n.low.withComp(e.comp), n.high.withComp(e.comp)
}
