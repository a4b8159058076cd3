// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import "fmt"

// varcompile.go is the variable compiler: it turns requests for booleans
// and fixed-width integers into freshly allocated variable ranks and the
// single-variable nodes (Ithvar) every higher-level construction is built
// from, following the allocation style of rudd's varnum.go/Ithvar but
// generalized to the spec's richer vocabulary (named bit-vectors,
// interleaved orderings, explicit permutations).

// allocRank reserves the next variable rank and returns the node for it
// (low=False, high=True), memoized for reuse by Ithvar.
func (b *Manager) allocRank() (int32, edge, error) {
	if b.poisoned {
		return 0, edge{}, ErrInternalConsistency
	}
	if b.varnum >= b.kind.maxVar() {
		return 0, edge{}, fmt.Errorf("allocRank: %w: %s manager limited to %d variables", ErrCapacityExhausted, b.kind.name(), b.kind.maxVar())
	}
	rank := b.varnum
	b.varnum++
	defer b.enter()()
	e, err := b.insertEdge(rank, 0, edge{0, true}, edge{0, false})
	if err != nil {
		return 0, edge{}, err
	}
	b.ithvar = append(b.ithvar, e)
	return rank, e, nil
}

// Ithvar returns the handle for the single boolean variable at rank, which
// must already have been allocated by CreateBool or a bit-vector
// constructor.
func (b *Manager) Ithvar(rank int32) (Handle, error) {
	if rank < 0 || rank >= int32(len(b.ithvar)) {
		return Handle{}, fmt.Errorf("Ithvar(%d): %w", rank, ErrUnknownVariable)
	}
	return b.newHandle(b.ithvar[rank]), nil
}

// CreateBool allocates a fresh boolean variable and returns its handle.
func (b *Manager) CreateBool() (Handle, error) {
	_, e, err := b.allocRank()
	if err != nil {
		return b.seterror(err, "CreateBool"), err
	}
	return b.newHandle(e), nil
}

// BitVector is a fixed-width vector of boolean variables (or, once built by
// an arithmetic operation, of boolean functions over such variables), with
// bits stored least-significant first.
type BitVector struct {
	mgr  *Manager
	bits []Handle // bits[0] is the LSB
}

// Width returns the number of bits in v.
func (v *BitVector) Width() int { return len(v.bits) }

// Bit returns the i-th bit (0 = LSB) as a Handle.
func (v *BitVector) Bit(i int) (Handle, error) {
	if i < 0 || i >= len(v.bits) {
		return Handle{}, fmt.Errorf("Bit(%d): %w", i, ErrInvalidArgument)
	}
	return v.bits[i], nil
}

func newBitVector(mgr *Manager, bits []Handle) *BitVector {
	return &BitVector{mgr: mgr, bits: bits}
}

// CreateIntN allocates width fresh boolean variables, consecutively, and
// returns them as a BitVector with bit 0 (LSB) allocated first.
func (b *Manager) CreateIntN(width int) (*BitVector, error) {
	if width <= 0 {
		return nil, fmt.Errorf("CreateIntN: %w: width must be positive", ErrInvalidArgument)
	}
	bits := make([]Handle, width)
	for i := 0; i < width; i++ {
		h, err := b.CreateBool()
		if err != nil {
			return nil, err
		}
		bits[i] = h
	}
	return newBitVector(b, bits), nil
}

// CreateInt allocates width fresh boolean variables under an explicit
// ordering: ordering must be a permutation of [0, width), and ordering[k]
// gives the bit index that receives the k-th allocated rank. This lets a
// caller choose, e.g., MSB-first allocation, or interleave a vector's bits
// with other state by allocating in several calls.
func (b *Manager) CreateInt(width int, ordering []int) (*BitVector, error) {
	if width <= 0 {
		return nil, fmt.Errorf("CreateInt: %w: width must be positive", ErrInvalidArgument)
	}
	if err := validatePermutation(ordering, width); err != nil {
		return nil, fmt.Errorf("CreateInt: %w", err)
	}
	bits := make([]Handle, width)
	for k := 0; k < width; k++ {
		h, err := b.CreateBool()
		if err != nil {
			return nil, err
		}
		bits[ordering[k]] = h
	}
	return newBitVector(b, bits), nil
}

// validatePermutation checks that ordering is a bijection on [0, width).
func validatePermutation(ordering []int, width int) error {
	if len(ordering) != width {
		return fmt.Errorf("%w: ordering has %d entries, want %d", ErrInvalidArgument, len(ordering), width)
	}
	seen := make([]bool, width)
	for _, o := range ordering {
		if o < 0 || o >= width || seen[o] {
			return fmt.Errorf("%w: ordering is not a bijection on [0,%d)", ErrInvalidArgument, width)
		}
		seen[o] = true
	}
	return nil
}

// CreateInterleavedIntN allocates n bit-vectors of the given width whose
// variables are interleaved rank-by-rank: the LSBs of every vector are
// allocated before any vector's second bit, and so on. This is the
// classical trick for keeping corresponding bits of several vectors
// adjacent in the variable order, which keeps comparator and adder BDDs
// small.
func (b *Manager) CreateInterleavedIntN(n, width int) ([]*BitVector, error) {
	if n <= 0 || width <= 0 {
		return nil, fmt.Errorf("CreateInterleavedIntN: %w: n and width must be positive", ErrInvalidArgument)
	}
	vecs := make([][]Handle, n)
	for i := range vecs {
		vecs[i] = make([]Handle, width)
	}
	for bit := 0; bit < width; bit++ {
		for i := 0; i < n; i++ {
			h, err := b.CreateBool()
			if err != nil {
				return nil, err
			}
			vecs[i][bit] = h
		}
	}
	out := make([]*BitVector, n)
	for i := range out {
		out[i] = newBitVector(b, vecs[i])
	}
	return out, nil
}

// CreateInterleavedInt is CreateInterleavedIntN for two vectors, the common
// case of comparing or adding a pair of numbers.
func (b *Manager) CreateInterleavedInt(width int) (*BitVector, *BitVector, error) {
	vs, err := b.CreateInterleavedIntN(2, width)
	if err != nil {
		return nil, nil, err
	}
	return vs[0], vs[1], nil
}

// CreateInt8 allocates an 8-bit BitVector, LSB allocated first.
func (b *Manager) CreateInt8() (*BitVector, error) { return b.CreateIntN(8) }

// CreateInt16 allocates a 16-bit BitVector, LSB allocated first.
func (b *Manager) CreateInt16() (*BitVector, error) { return b.CreateIntN(16) }

// CreateInt32 allocates a 32-bit BitVector, LSB allocated first.
func (b *Manager) CreateInt32() (*BitVector, error) { return b.CreateIntN(32) }

// CreateInt64 allocates a 64-bit BitVector, LSB allocated first.
func (b *Manager) CreateInt64() (*BitVector, error) { return b.CreateIntN(64) }

// NewBitVector wraps an existing slice of handles (bits[0] is the LSB) as a
// BitVector without allocating any variable, for building a vector out of
// the result of other operations (e.g. the sum returned by Add).
func (b *Manager) NewBitVector(bits []Handle) (*BitVector, error) {
	if len(bits) == 0 {
		return nil, fmt.Errorf("NewBitVector: %w: empty bit slice", ErrInvalidArgument)
	}
	cp := make([]Handle, len(bits))
	for i, h := range bits {
		if err := b.checkOwn(h); err != nil {
			return nil, err
		}
		cp[i] = h
	}
	return newBitVector(b, cp), nil
}
