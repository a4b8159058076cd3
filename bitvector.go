// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import "fmt"

// bitvector.go is a thin façade building ripple-carry arithmetic and
// comparators out of Ite, in the spirit of rudd's set.go wrapping the
// kernel operations into a friendlier surface.

func sameWidth(a, b *BitVector) error {
	if a.mgr != b.mgr {
		return ErrWrongManager
	}
	if len(a.bits) != len(b.bits) {
		return fmt.Errorf("%w: %d vs %d", ErrMismatchedSize, len(a.bits), len(b.bits))
	}
	return nil
}

// And returns the bitwise AND of a and b, which must share a width.
func (a *BitVector) And(b *BitVector) (*BitVector, error) { return a.bitwise(b, a.mgr.And) }

// Or returns the bitwise OR of a and b, which must share a width.
func (a *BitVector) Or(b *BitVector) (*BitVector, error) { return a.bitwise(b, a.mgr.Or) }

// Xor returns the bitwise XOR of a and b, which must share a width.
func (a *BitVector) Xor(b *BitVector) (*BitVector, error) { return a.bitwise(b, a.mgr.Xor) }

func (a *BitVector) bitwise(b *BitVector, op func(Handle, Handle) Handle) (*BitVector, error) {
	if err := sameWidth(a, b); err != nil {
		return nil, err
	}
	out := make([]Handle, len(a.bits))
	for i := range out {
		out[i] = op(a.bits[i], b.bits[i])
	}
	return newBitVector(a.mgr, out), nil
}

// Ite returns, bit by bit, Ite(cond, a, b): a where cond holds, b otherwise.
// cond is a single handle shared by every bit, not a per-bit vector.
func (a *BitVector) Ite(cond Handle, b *BitVector) (*BitVector, error) {
	if err := sameWidth(a, b); err != nil {
		return nil, err
	}
	mgr := a.mgr
	if err := mgr.checkOwn(cond); err != nil {
		return nil, err
	}
	out := make([]Handle, len(a.bits))
	for i := range out {
		out[i] = mgr.Ite(cond, a.bits[i], b.bits[i])
	}
	return newBitVector(mgr, out), nil
}

// Not returns the bitwise complement of a.
func (a *BitVector) Not() *BitVector {
	out := make([]Handle, len(a.bits))
	for i, h := range a.bits {
		out[i] = a.mgr.Not(h)
	}
	return newBitVector(a.mgr, out)
}

// checkShift validates the shift amount n against spec.md §4.5's "0 ≤ k <
// width", raising ErrInvalidArgument otherwise.
func checkShift(name string, n, width int) error {
	if n < 0 || n >= width {
		return fmt.Errorf("%s(%d): %w: must satisfy 0 <= k < %d", name, n, ErrInvalidArgument, width)
	}
	return nil
}

// ShiftLeft returns a shifted left by n bits, filling with False at the low
// end and discarding overflow at the high end; the width is unchanged. n
// must satisfy 0 <= n < Width().
func (a *BitVector) ShiftLeft(n int) (*BitVector, error) {
	width := len(a.bits)
	if err := checkShift("ShiftLeft", n, width); err != nil {
		return nil, err
	}
	out := make([]Handle, width)
	zero := a.mgr.False()
	for i := 0; i < width; i++ {
		if i-n >= 0 && i-n < width {
			out[i] = a.bits[i-n]
		} else {
			out[i] = zero
		}
	}
	return newBitVector(a.mgr, out), nil
}

// ShiftRight returns a logically shifted right by n bits, filling with
// False at the high end. n must satisfy 0 <= n < Width().
func (a *BitVector) ShiftRight(n int) (*BitVector, error) {
	width := len(a.bits)
	if err := checkShift("ShiftRight", n, width); err != nil {
		return nil, err
	}
	out := make([]Handle, width)
	zero := a.mgr.False()
	for i := 0; i < width; i++ {
		if i+n < width {
			out[i] = a.bits[i+n]
		} else {
			out[i] = zero
		}
	}
	return newBitVector(a.mgr, out), nil
}

// constBits returns a width-bit vector encoding the unsigned integer n.
func (b *Manager) constBits(width int, n uint64) []Handle {
	out := make([]Handle, width)
	for i := 0; i < width; i++ {
		if n&(1<<uint(i)) != 0 {
			out[i] = b.True()
		} else {
			out[i] = b.False()
		}
	}
	return out
}

// Constant returns a width-bit vector whose every bit is the corresponding
// bit of the literal value n.
func (b *Manager) Constant(width int, n uint64) *BitVector {
	return newBitVector(b, b.constBits(width, n))
}

// Add returns (a+b) mod 2^width, discarding any carry out of the top bit.
func (a *BitVector) Add(b *BitVector) (*BitVector, error) {
	sum, _, err := a.addWithCarry(b, a.mgr.False())
	return sum, err
}

// AddWithCarry returns a+b+carryIn along with the carry out of the top bit.
func (a *BitVector) AddWithCarry(b *BitVector, carryIn Handle) (*BitVector, Handle, error) {
	return a.addWithCarry(b, carryIn)
}

func (a *BitVector) addWithCarry(b *BitVector, carry Handle) (*BitVector, Handle, error) {
	if err := sameWidth(a, b); err != nil {
		return nil, Handle{}, err
	}
	mgr := a.mgr
	width := len(a.bits)
	out := make([]Handle, width)
	for i := 0; i < width; i++ {
		ai, bi := a.bits[i], b.bits[i]
		out[i] = mgr.Xor(mgr.Xor(ai, bi), carry)
		carry = mgr.Or(mgr.And(ai, bi), mgr.And(carry, mgr.Xor(ai, bi)))
	}
	return newBitVector(mgr, out), carry, nil
}

// Increment returns a+1, mod 2^width.
func (a *BitVector) Increment() *BitVector {
	mgr := a.mgr
	one := mgr.Constant(len(a.bits), 1)
	sum, _, _ := a.addWithCarry(one, mgr.False())
	return sum
}

// Subtract returns (a-b) mod 2^width, computed as a plus the two's
// complement of b.
func (a *BitVector) Subtract(b *BitVector) (*BitVector, error) {
	if err := sameWidth(a, b); err != nil {
		return nil, err
	}
	twos := b.Not().Increment()
	sum, _, err := a.addWithCarry(twos, a.mgr.False())
	return sum, err
}

// Eq returns a handle for the predicate a == b, bit by bit.
func (a *BitVector) Eq(b *BitVector) (Handle, error) {
	if err := sameWidth(a, b); err != nil {
		return Handle{}, err
	}
	mgr := a.mgr
	res := mgr.True()
	for i := range a.bits {
		res = mgr.And(res, mgr.Iff(a.bits[i], b.bits[i]))
	}
	return res, nil
}

// Lt returns a handle for the unsigned predicate a < b.
func (a *BitVector) Lt(b *BitVector) (Handle, error) { return a.unsignedLt(b) }

// Le returns a handle for the unsigned predicate a <= b.
func (a *BitVector) Le(b *BitVector) (Handle, error) {
	lt, err := b.unsignedLt(a)
	if err != nil {
		return Handle{}, err
	}
	return a.mgr.Not(lt), nil
}

// Gt returns a handle for the unsigned predicate a > b.
func (a *BitVector) Gt(b *BitVector) (Handle, error) { return b.unsignedLt(a) }

// Ge returns a handle for the unsigned predicate a >= b.
func (a *BitVector) Ge(b *BitVector) (Handle, error) {
	lt, err := a.unsignedLt(b)
	if err != nil {
		return Handle{}, err
	}
	return a.mgr.Not(lt), nil
}

// unsignedLt builds the ripple comparator "a < b", folding bit by bit from
// the LSB so that each more significant bit's inequality overrides the
// comparison accumulated from the bits below it.
func (a *BitVector) unsignedLt(b *BitVector) (Handle, error) {
	if err := sameWidth(a, b); err != nil {
		return Handle{}, err
	}
	mgr := a.mgr
	lt := mgr.False()
	for i := range a.bits {
		ai, bi := a.bits[i], b.bits[i]
		differs := mgr.And(mgr.Not(ai), bi)
		lt = mgr.Or(differs, mgr.And(mgr.Iff(ai, bi), lt))
	}
	return lt, nil
}

// signedView returns a copy of v's bits with the sign (top) bit inverted,
// the standard trick turning a two's-complement ordering comparison into an
// unsigned one.
func (a *BitVector) signedView() *BitVector {
	out := make([]Handle, len(a.bits))
	copy(out, a.bits)
	top := len(out) - 1
	out[top] = a.mgr.Not(out[top])
	return newBitVector(a.mgr, out)
}

// SignedLt returns a handle for the two's-complement predicate a < b.
func (a *BitVector) SignedLt(b *BitVector) (Handle, error) {
	return a.signedView().unsignedLt(b.signedView())
}

// SignedLe returns a handle for the two's-complement predicate a <= b.
func (a *BitVector) SignedLe(b *BitVector) (Handle, error) {
	lt, err := b.signedView().unsignedLt(a.signedView())
	if err != nil {
		return Handle{}, err
	}
	return a.mgr.Not(lt), nil
}

// SignedGt returns a handle for the two's-complement predicate a > b.
func (a *BitVector) SignedGt(b *BitVector) (Handle, error) {
	return b.signedView().unsignedLt(a.signedView())
}

// SignedGe returns a handle for the two's-complement predicate a >= b.
func (a *BitVector) SignedGe(b *BitVector) (Handle, error) {
	lt, err := a.signedView().unsignedLt(b.signedView())
	if err != nil {
		return Handle{}, err
	}
	return a.mgr.Not(lt), nil
}
