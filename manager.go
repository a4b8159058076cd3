// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"fmt"
	"log"
	"sync/atomic"
)

var nextManagerID uint64

// Manager owns one node pool, its operation cache and the set of variables
// and handles built against it. A Manager is not safe for concurrent use:
// like rudd's BDD type, it is meant to be driven by a single goroutine at a
// time, cooperatively, rather than guarded by a mutex for incidental
// concurrent access the algorithms are not designed to support.
type Manager struct {
	id   uint64
	kind nodeKind
	pool *nodePool
	cache *opCache
	handles *handleTable
	constRef *handleRef
	cfg  *configs

	varnum int32
	ithvar []edge

	err      error
	poisoned bool

	gcCycles int

	// busy counts nested public operations currently recurring. While it is
	// non-zero, growOrCollect never runs a compacting collection (it grows
	// the table once the free list is empty): compaction renumbers nodes and would
	// invalidate the temporary, unregistered edges a recursive algorithm
	// keeps on the Go call stack between its own insert calls. Collections
	// only ever run at a safe point between top-level operations.
	busy int
}

func (b *Manager) enter() func() {
	b.busy++
	return func() { b.busy-- }
}

// New creates a Manager for the node-kind strategy produced by factory
// (BDDKind() or CBDDKind()). Options configure the initial table sizes and
// growth policy; see Nodesize, Cachesize, Maxnodesize, GCCutoff and the
// other functional options in config.go.
func New(factory nodeKind, opts ...func(*configs)) (*Manager, error) {
	if factory == nil {
		return nil, fmt.Errorf("chainbdd: New: %w: nil node kind", ErrInvalidArgument)
	}
	cfg := makeconfigs()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, fmt.Errorf("chainbdd: New: %w", cfg.err)
	}
	// spec.md §6: initialCapacity and gcCutoff are rounded up to the next
	// power of two.
	cfg.nodesize = nextPow2(cfg.nodesize)
	cfg.gccutoff = nextPow2(cfg.gccutoff)
	b := &Manager{
		id:      atomic.AddUint64(&nextManagerID, 1),
		kind:    factory,
		pool:    newNodePool(factory, cfg),
		cache:   newOpCache(cfg.cachesize),
		handles: newHandleTable(),
		cfg:     cfg,
	}
	b.constRef = &handleRef{idx: 0, mgr: b}
	if _DEBUG || cfg.printDebug {
		log.Printf("chainbdd: new %s manager %d (nodes=%d cache=%d)", factory.name(), b.id, len(b.pool.nodes), b.cache.size)
	}
	return b, nil
}

// own reports whether h belongs to this manager; the zero Handle belongs to
// no manager.
func (b *Manager) own(h Handle) bool {
	return !h.isZero() && h.ref.mgr == b
}

func (b *Manager) checkOwn(h Handle) error {
	if !b.own(h) {
		return ErrWrongManager
	}
	return nil
}

// Stats reports a snapshot of the manager's internal bookkeeping: node
// table occupancy and the operation cache's hit ratio, mirroring what
// rudd's own debug logging tracks.
type Stats struct {
	Kind         string
	NodesUsed    int
	NodesTotal   int
	CacheHits    int64
	CacheMisses  int64
	GCCycles     int
	VariableCount int32
}

// Stats returns a point-in-time snapshot of the manager's internal state.
func (b *Manager) Stats() Stats {
	return Stats{
		Kind:          b.kind.name(),
		NodesUsed:     b.pool.used(),
		NodesTotal:    b.pool.count(),
		CacheHits:     b.cache.hits,
		CacheMisses:   b.cache.misses,
		GCCycles:      b.gcCycles,
		VariableCount: b.varnum,
	}
}

// insert is the Manager-level wrapper around nodePool.insert that supplies
// the grow/garbage-collect callback and converts a successful edge into a
// tracked Handle.
func (b *Manager) insert(level, skip int32, low, high edge) Handle {
	if b.poisoned {
		return b.poison("insert: manager is poisoned")
	}
	res, err := b.pool.insert(level, skip, low, high, b.growOrCollect)
	if err != nil {
		return b.seterror(err, "insert(level=%d)", level)
	}
	return b.newHandle(res)
}

// insertEdge is the same as insert but returns a raw edge for internal use
// during recursive algorithms, avoiding a HandleTable registration for
// values that never escape to the caller.
func (b *Manager) insertEdge(level, skip int32, low, high edge) (edge, error) {
	if b.poisoned {
		return edge{}, ErrInternalConsistency
	}
	return b.pool.insert(level, skip, low, high, b.growOrCollect)
}

// growOrCollect is called by nodePool.insert when it runs out of free
// slots or when the used node count reaches the GC cutoff. While an
// operation is in progress (busy > 0) it never collects: it returns at once
// if free slots remain and grows the table otherwise. With busy == 0 it
// first tries a garbage collection; if that does not free enough slots to
// satisfy Minfreenodes, it grows the table instead. Every node insertion of
// the public operations happens with busy > 0, so collections run only
// through GC.
func (b *Manager) growOrCollect() error {
	if b.busy > 0 {
		if b.pool.freenum > 0 {
			return nil
		}
		return b.growTable()
	}
	before := b.pool.freenum
	b.collect()
	needed := b.pool.count() * b.cfg.minfreenodes / 100
	if b.pool.freenum > needed && b.pool.freenum > before {
		return nil
	}
	return b.growTable()
}

func (b *Manager) growTable() error {
	cur := b.pool.count()
	inc := cur
	if b.cfg.maxnodeincrease > 0 && inc > b.cfg.maxnodeincrease {
		inc = b.cfg.maxnodeincrease
	}
	if inc < 1 {
		inc = 1
	}
	newSize := cur + inc
	if b.cfg.maxnodesize > 0 && newSize > b.cfg.maxnodesize {
		newSize = b.cfg.maxnodesize
	}
	if b.cfg.maxnodesize > 0 && cur >= b.cfg.maxnodesize {
		return fmt.Errorf("growTable: %w: node table capped at %d", ErrCapacityExhausted, b.cfg.maxnodesize)
	}
	b.pool.grow(newSize - cur)
	if b.cfg.cacheratio > 0 {
		b.cache.resize(newSize * b.cfg.cacheratio / 100)
	}
	if _DEBUG || b.cfg.printDebug {
		log.Printf("chainbdd: manager %d grew node table to %d", b.id, newSize)
	}
	return nil
}

// Variable returns the decision rank of h, i.e. the level of the node it
// refers to (ignoring its complement bit, which never affects which
// variable a node decides on).
func (b *Manager) Variable(h Handle) (int32, error) {
	if err := b.checkOwn(h); err != nil {
		return 0, err
	}
	if h.IsConstant() {
		return 0, fmt.Errorf("Variable: %w: handle is a constant", ErrInvalidArgument)
	}
	return b.pool.nodes[h.ref.idx].level, nil
}

// Low returns the negative cofactor of h with respect to its own decision
// variable.
func (b *Manager) Low(h Handle) (Handle, error) {
	if err := b.checkOwn(h); err != nil {
		return Handle{}, err
	}
	if h.IsConstant() {
		return Handle{}, fmt.Errorf("Low: %w: handle is a constant", ErrInvalidArgument)
	}
	e := h.edge()
	low := b.pool.nodes[e.idx].low.withComp(e.comp)
	return b.newHandle(low), nil
}

// High returns the positive cofactor of h with respect to its own decision
// variable.
func (b *Manager) High(h Handle) (Handle, error) {
	if err := b.checkOwn(h); err != nil {
		return Handle{}, err
	}
	if h.IsConstant() {
		return Handle{}, fmt.Errorf("High: %w: handle is a constant", ErrInvalidArgument)
	}
	e := h.edge()
	high := b.pool.nodes[e.idx].high.withComp(e.comp)
	return b.newHandle(high), nil
}

// Skip returns the number of additional ranks, beyond h's own decision
// variable, this node's chain collapses before the next real decision. It
// is always zero on a BDD-kind manager.
func (b *Manager) Skip(h Handle) (int32, error) {
	if err := b.checkOwn(h); err != nil {
		return 0, err
	}
	if h.IsConstant() {
		return 0, nil
	}
	return b.pool.nodes[h.ref.idx].skip, nil
}
