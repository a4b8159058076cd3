// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import "fmt"

// _MINFREENODES is the default minimal percentage of nodes that has to be
// left free after a garbage collection, below which we resize the table.
const _MINFREENODES int = 20

// _DEFAULTMAXNODEINC is the default limit on the number of nodes added to
// the table at each resize (roughly one million nodes).
const _DEFAULTMAXNODEINC int = 1 << 20

// _DEFAULTGCCUTOFF is the default initial GC cutoff (see GCCutoff), and the
// lower bound collect applies when it resets the cutoff.
const _DEFAULTGCCUTOFF int = 1 << 13 // 8k, the spec's stated lower bound

// configs stores the tunable parameters of a Manager.
type configs struct {
	nodesize        int // initial number of nodes in the table
	cachesize       int // initial size of the (single) operation cache
	cacheratio      int // cache-to-nodetable ratio (%) used on resize, 0 = constant size
	maxnodesize     int // maximum total number of nodes, 0 = no limit
	maxnodeincrease int // maximum nodes added per resize, 0 = no limit
	minfreenodes    int // minimum free-node percentage required after a GC
	gccutoff        int // node count that triggers a GC cycle
	printDebug      bool
	seed            int64

	// err records the first invalid-argument failure raised by a functional
	// option (e.g. a negative Nodesize or GCCutoff); New checks it once every
	// option has run, per spec.md §6's "negative values raise
	// invalid-argument".
	err error
}

// _DEFAULTNODESIZE is the initial node-table size when Nodesize is not
// given explicitly; the table grows on demand from here.
const _DEFAULTNODESIZE int = 256

func makeconfigs() *configs {
	return &configs{
		nodesize:        _DEFAULTNODESIZE,
		minfreenodes:    _MINFREENODES,
		maxnodeincrease: _DEFAULTMAXNODEINC,
		gccutoff:        _DEFAULTGCCUTOFF,
	}
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// setPositive records size onto the field dst if it is positive, and
// remembers an invalid-argument failure on c.err (without overwriting any
// failure already recorded) if it is negative. Zero is left as a no-op,
// since it means "use the default" for every option below.
func setPositive(c *configs, name string, size int, dst *int) {
	switch {
	case size > 0:
		*dst = size
	case size < 0 && c.err == nil:
		c.err = fmt.Errorf("%s(%d): %w: must not be negative", name, size, ErrInvalidArgument)
	}
}

// Nodesize is a configuration option for New. It sets a preferred initial
// size for the node table. The table grows automatically as needed; this
// only influences the starting allocation. A negative size is rejected by
// New with ErrInvalidArgument.
func Nodesize(size int) func(*configs) {
	return func(c *configs) { setPositive(c, "Nodesize", size, &c.nodesize) }
}

// setNonNegative records size onto dst unconditionally if it is zero or
// positive (zero is a meaningful "no limit"/"disabled" value for these
// options, unlike setPositive's fields), and remembers an invalid-argument
// failure for a negative size.
func setNonNegative(c *configs, name string, size int, dst *int) {
	if size < 0 {
		if c.err == nil {
			c.err = fmt.Errorf("%s(%d): %w: must not be negative", name, size, ErrInvalidArgument)
		}
		return
	}
	*dst = size
}

// Maxnodesize is a configuration option for New. It caps the number of
// nodes the table may ever hold; operations that would exceed this limit
// fail with ErrCapacityExhausted. Zero (the default) means no limit besides
// the node kind's own rank-space limit.
func Maxnodesize(size int) func(*configs) {
	return func(c *configs) { setNonNegative(c, "Maxnodesize", size, &c.maxnodesize) }
}

// Maxnodeincrease is a configuration option for New. It bounds how many
// nodes are added to the table in a single resize. The default is about a
// million; zero removes the limit.
func Maxnodeincrease(size int) func(*configs) {
	return func(c *configs) { setNonNegative(c, "Maxnodeincrease", size, &c.maxnodeincrease) }
}

// Minfreenodes is a configuration option for New. It sets the percentage of
// free nodes that must remain after a garbage collection; falling short of
// this ratio triggers a table resize. The default is 20%.
func Minfreenodes(ratio int) func(*configs) {
	return func(c *configs) { setNonNegative(c, "Minfreenodes", ratio, &c.minfreenodes) }
}

// Cachesize is a configuration option for New. It sets the initial number
// of entries in the (single, shared) operation cache. A negative size is
// rejected by New with ErrInvalidArgument.
func Cachesize(size int) func(*configs) {
	return func(c *configs) { setPositive(c, "Cachesize", size, &c.cachesize) }
}

// Cacheratio is a configuration option for New. With a ratio of r, the
// operation cache grows to r entries for every 100 node-table slots each
// time the node table is resized. Zero (the default) keeps the cache size
// constant.
func Cacheratio(ratio int) func(*configs) {
	return func(c *configs) { setNonNegative(c, "Cacheratio", ratio, &c.cacheratio) }
}

// GCCutoff is a configuration option for New. It sets the initial used node
// count (rounded up to a power of two by New) at which node insertion
// consults the Manager's grow-or-collect step; the default is 8192. After
// every collection the cutoff is reset to twice the live node count, with a
// lower bound of 8192, whether or not this option was given. No collection
// runs in the middle of an operation, so in practice only GC starts one. A
// negative cutoff is rejected by New with ErrInvalidArgument.
func GCCutoff(cutoff int) func(*configs) {
	return func(c *configs) { setPositive(c, "GCCutoff", cutoff, &c.gccutoff) }
}

// PrintDebug is a configuration option for New. It requests that cache and
// GC statistics be logged even in a non-debug build.
func PrintDebug(yes bool) func(*configs) {
	return func(c *configs) {
		c.printDebug = yes
	}
}

// Seed is a configuration option for New. It fixes the seed used by
// operations that need one (none of the core algorithms are randomized
// today; this is reserved for the variable-ordering heuristics a future
// reordering pass would need).
func Seed(seed int64) func(*configs) {
	return func(c *configs) {
		c.seed = seed
	}
}
