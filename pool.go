// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

// nodePool is the unique table (hash-consing table) of a Manager. It is
// grounded on rudd's hudd.go, which documents using "a standard Go runtime
// hashmap to encode a unicity table" as an alternative to buddy's hand
// rolled open-addressed table; we take that documented alternative and
// make the map key a plain comparable struct (nodeKey) instead of a packed
// byte slice, which is both simpler and idiomatic given nodeKey's fields
// are themselves small fixed-size values.
type nodePool struct {
	kind    nodeKind
	nodes   []slot
	unique  map[nodeKey]int32
	freepos int32
	freenum int
	produced int
	cfg     *configs

	hits   int64
	misses int64
}

func newNodePool(kind nodeKind, cfg *configs) *nodePool {
	size := cfg.nodesize
	if size < 2 {
		size = _DEFAULTNODESIZE
	}
	p := &nodePool{
		kind:   kind,
		nodes:  make([]slot, size),
		unique: make(map[nodeKey]int32, size),
	}
	p.cfg = cfg
	// index 0 is the terminal; it is its own self-referencing slot and is
	// never entered into the unique table, matching rudd's convention that
	// the constant nodes are allocated up front and never garbage
	// collected or reinserted.
	p.nodes[0] = slot{level: levelSentinel, low: edge{0, false}, high: edge{0, false}, refcou: 1}
	p.buildFreelist(1)
	return p
}

// buildFreelist threads every unused slot starting at from into the free
// list, in ascending order, and marks them free.
func (p *nodePool) buildFreelist(from int32) {
	n := int32(len(p.nodes))
	for i := from; i < n; i++ {
		p.nodes[i] = slot{level: -1, low: edge{idx: i + 1}}
	}
	if n > from {
		p.nodes[n-1].low = edge{idx: 0}
	}
	p.freepos = from
	p.freenum = int(n - from)
}

func (p *nodePool) levelOf(e edge) int32 {
	if e.idx == 0 {
		return levelSentinel
	}
	return p.nodes[e.idx].level
}

// lookup finds an existing node for key without creating one.
func (p *nodePool) lookup(key nodeKey) (int32, bool) {
	idx, ok := p.unique[key]
	return idx, ok
}

// insert is the NodePool.getOrInsert primitive described in spec.md §4.1:
// canonicalize the complement bit on high, apply the low==high reduction,
// let the node kind absorb any chain-merge opportunity, then hash-cons.
// grow is called (by the Manager) when the table has no free slot left or
// the used node count has reached the GC cutoff; it may trigger a garbage
// collection and/or grow the pool.
func (p *nodePool) insert(level, skip int32, low, high edge, grow func() error) (edge, error) {
	if high.comp {
		res, err := p.insert(level, skip, low.not(), high.not(), grow)
		if err != nil {
			return edge{}, err
		}
		return res.not(), nil
	}
	if low == high {
		return low, nil
	}
	skip, low, high = p.kind.chain(p, level, skip, low, high)
	if low == high {
		// A staircase absorption can degenerate into a trivial node (e.g.
		// collapsing AND(a, AND(b, a)) down to where both children end up
		// pointing at the same edge); re-run the reduction chain.chain
		// itself cannot perform since it only ever merges, never reduces.
		return low, nil
	}
	key := nodeKey{level: level, skip: skip, low: low, high: high}
	if idx, ok := p.unique[key]; ok {
		p.hits++
		return edge{idx, false}, nil
	}
	p.misses++
	// grow is consulted either on free-list exhaustion or once the used node
	// count reaches the configured cutoff, whichever comes first; whether it
	// collects, grows or does nothing is decided by Manager.growOrCollect.
	if p.freenum == 0 || (p.cfg.gccutoff > 0 && p.used() >= p.cfg.gccutoff) {
		if err := grow(); err != nil {
			return edge{}, err
		}
		if idx, ok := p.unique[key]; ok {
			// grow may have run a GC that re-threaded the free list but
			// cannot have recreated this exact key (it didn't exist a
			// moment ago), so this branch is unreachable in practice; it
			// is kept only as a defensive double check against a bug in
			// grow's bookkeeping.
			return edge{idx, false}, nil
		}
		if p.freenum == 0 {
			return edge{}, ErrCapacityExhausted
		}
	}
	idx := p.freepos
	next := p.nodes[idx].low.idx
	p.nodes[idx] = slot{level: level, skip: skip, low: low, high: high, refcou: 0}
	p.freepos = next
	p.freenum--
	p.produced++
	p.unique[key] = idx
	return edge{idx, false}, nil
}

// count is the table's current node capacity (including free slots).
func (p *nodePool) count() int { return len(p.nodes) }

// used is the number of live, allocated slots (excludes the free list).
func (p *nodePool) used() int { return len(p.nodes) - p.freenum }

// grow appends n fresh free slots to the pool. It is only called with an
// empty free list (during an operation growOrCollect grows the table only
// once freenum reaches 0), so there is no existing list to splice onto.
func (p *nodePool) grow(n int) {
	old := int32(len(p.nodes))
	p.nodes = append(p.nodes, make([]slot, n)...)
	p.buildFreelist(old)
}
