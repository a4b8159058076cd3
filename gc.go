// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import "log"

// gc.go implements the mark-and-compact collector described in spec.md
// §4.4. This departs from rudd's gbc, which only threads dead slots onto a
// free list and never renumbers or relocates anything; here, live nodes
// are physically packed to the front of the table and every live
// reference — HandleTable entries, the memoized Ithvar nodes, and the
// unique table itself — is rewritten to match, in the same spirit as
// rudd's markrec/unmarknode machinery but carried through to a real
// compaction instead of stopping at marking.

// collect runs one mark-and-compact cycle. It is a no-op safe point: it
// must never be called while a recursive algorithm has unregistered,
// temporary edges live on the Go stack (see Manager.busy).
func (b *Manager) collect() {
	// Held for the whole cycle: finalizers run on their own goroutine and
	// would otherwise race this function's range-and-mutate passes over
	// b.handles.live with a concurrent delete (see handleTable's doc
	// comment).
	b.handles.mu.Lock()
	defer b.handles.mu.Unlock()

	n := int32(len(b.pool.nodes))
	marked := make([]bool, n)
	marked[0] = true

	for ref := range b.handles.live {
		b.markFrom(ref.idx, marked)
	}
	for _, e := range b.ithvar {
		b.markFrom(e.idx, marked)
	}

	remap := make([]int32, n)
	var next int32 = 1
	for idx := int32(1); idx < n; idx++ {
		if marked[idx] {
			remap[idx] = next
			next++
		}
	}

	compacted := make([]slot, n)
	compacted[0] = b.pool.nodes[0]
	newUnique := make(map[nodeKey]int32, next)
	for idx := int32(1); idx < n; idx++ {
		if !marked[idx] {
			continue
		}
		old := b.pool.nodes[idx]
		newIdx := remap[idx]
		rewritten := slot{
			level: old.level,
			skip:  old.skip,
			low:   edge{remap[old.low.idx], old.low.comp},
			high:  edge{remap[old.high.idx], old.high.comp},
		}
		compacted[newIdx] = rewritten
		newUnique[nodeKey{level: rewritten.level, skip: rewritten.skip, low: rewritten.low, high: rewritten.high}] = newIdx
	}

	for ref := range b.handles.live {
		if ref.idx != 0 && !marked[ref.idx] {
			b.poison("collect: live handle referenced an unmarked node")
			return
		}
		ref.idx = remap[ref.idx]
	}
	for i, e := range b.ithvar {
		if e.idx != 0 {
			b.ithvar[i] = edge{remap[e.idx], e.comp}
		}
	}

	b.pool.nodes = compacted
	b.pool.unique = newUnique
	b.pool.buildFreelist(next)
	b.cache.invalidate()
	b.gcCycles++

	// spec.md §4.4's stated default: the cutoff that triggers the next cycle
	// is double the live count this cycle just produced, never below
	// _DEFAULTGCCUTOFF. Without this the cutoff is whatever it started at
	// forever, so once a workload's live set grows past the initial 8k it
	// GCs on every single insert that doesn't immediately find a free slot.
	if liveCutoff := 2 * int(next-1); liveCutoff > _DEFAULTGCCUTOFF {
		b.cfg.gccutoff = liveCutoff
	} else {
		b.cfg.gccutoff = _DEFAULTGCCUTOFF
	}

	if _DEBUG || b.cfg.printDebug {
		log.Printf("chainbdd: manager %d gc #%d: %d live of %d", b.id, b.gcCycles, next-1, n-1)
	}
}

func (b *Manager) markFrom(idx int32, marked []bool) {
	if idx == 0 || marked[idx] {
		return
	}
	marked[idx] = true
	n := &b.pool.nodes[idx]
	b.markFrom(n.low.idx, marked)
	b.markFrom(n.high.idx, marked)
}

// NodeCount returns the DAG size of h: the number of distinct internal
// nodes (plus the shared terminal) reachable from h.
func (b *Manager) NodeCount(h Handle) (int, error) {
	if err := b.checkOwn(h); err != nil {
		return 0, err
	}
	seen := map[int32]bool{}
	var visit func(idx int32)
	visit = func(idx int32) {
		if seen[idx] {
			return
		}
		seen[idx] = true
		if idx == 0 {
			return
		}
		n := &b.pool.nodes[idx]
		visit(n.low.idx)
		visit(n.high.idx)
	}
	visit(h.ref.idx)
	return len(seen), nil
}

// PoolSize returns the pool-wide node count (spec.md §6's no-argument
// NodeCount() overload, renamed since Go has no overloading): the total
// number of node slots currently allocated in the unique table, live and
// free alike. Compare Stats().NodesUsed for just the live count.
func (b *Manager) PoolSize() int { return b.pool.count() }

// GC forces an immediate garbage collection cycle. It is exposed so
// callers (and tests asserting handle stability across compaction) can
// trigger one deterministically instead of waiting for the node table to
// fill up.
func (b *Manager) GC() {
	if b.busy > 0 {
		return
	}
	b.collect()
}
