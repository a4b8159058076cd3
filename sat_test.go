// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

func TestSatUnsatReturnsNil(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, _, _ := threeBools(t, b)
	witness, err := b.Sat(b.And(a, b.Not(a)))
	require.NoError(t, err)
	require.Nil(t, witness)
}

func TestSatSoundness(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, d := threeBools(t, b)
	f := b.Implies(b.And(a, c), d)

	w, err := b.Sat(f)
	require.NoError(t, err)
	require.NotNil(t, w)
	require.True(t, w.eval(f))
}

func TestSatSubsetRejectsOutsideRank(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, _ := threeBools(t, b)
	ra, err := b.Variable(a)
	require.NoError(t, err)
	rc, err := b.Variable(c)
	require.NoError(t, err)

	w, err := b.SatSubset(b.Or(a, c), []int32{ra})
	require.NoError(t, err)
	require.NotNil(t, w)

	_, err = w.Get(ra)
	require.NoError(t, err)
	_, err = w.Get(rc)
	require.ErrorIs(t, err, ErrUnknownVariable)
}

func TestSatcountMatchesAllSat(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, d := threeBools(t, b)
	f := b.Or(a, b.And(c, d))

	all, err := b.AllSat(f)
	require.NoError(t, err)

	count, err := b.Satcount(f)
	require.NoError(t, err)

	// Each partial assignment in AllSat stands for 2^(varnum-len(values))
	// full assignments; summing that over every returned witness must equal
	// Satcount's total.
	total := int64(0)
	for _, w := range all {
		total += int64(1) << uint(int(b.varnum)-len(w.values))
	}
	require.Equal(t, count.Int64(), total)
}

func TestBitvectorEqDecodesSat(t *testing.T) {
	b := newTestManager(t, BDDKind())
	v8, err := b.CreateInt8()
	require.NoError(t, err)
	target := b.Constant(8, 4)
	eq, err := v8.Eq(target)
	require.NoError(t, err)

	w, err := b.Sat(eq)
	require.NoError(t, err)
	require.NotNil(t, w)
	got, err := w.Int(v8)
	require.NoError(t, err)
	require.EqualValues(t, 4, got)
}

func TestBitvector128DecodesAsBytes(t *testing.T) {
	b := newTestManager(t, BDDKind())
	v128, err := b.CreateIntN(128)
	require.NoError(t, err)
	want := make([]byte, 16)
	want[15] = 3
	target := b.NewBitVector128Bytes(t, want)
	eq, err := v128.Eq(target)
	require.NoError(t, err)

	w, err := b.Sat(eq)
	require.NoError(t, err)
	require.NotNil(t, w)
	require.Equal(t, want, w.Bytes(v128))
}

// NewBitVector128Bytes is a small test-only helper building a constant
// 128-bit BitVector from a little-endian byte slice; production code never
// needs widths this wide to come from raw bytes at construction time (only
// at decode time, via Assignment.Bytes), so this stays test-local instead of
// growing the public façade.
func (b *Manager) NewBitVector128Bytes(t *testing.T, bytes []byte) *BitVector {
	t.Helper()
	bits := make([]Handle, len(bytes)*8)
	for i := range bits {
		byteVal := bytes[i/8]
		if byteVal&(1<<uint(i%8)) != 0 {
			bits[i] = b.True()
		} else {
			bits[i] = b.False()
		}
	}
	v, err := b.NewBitVector(bits)
	require.NoError(t, err)
	return v
}

// randomFormula interprets a byte program as a small stack machine building
// a formula out of 4 fixed Boolean variables, following SPEC_FULL.md §1's
// description of using gofuzz to synthesize random formula trees the way
// vechain-thor's test helpers fuzz-synthesize struct graphs: gofuzz
// generates the raw random bytes, and this function is the deterministic
// "replay" of that byte program into a diagram.
func randomFormula(b *Manager, vars []Handle, program []byte) Handle {
	var stack []Handle
	push := func(h Handle) { stack = append(stack, h) }
	pop := func() Handle {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return h
	}
	for _, op := range program {
		switch {
		case len(stack) < 2:
			push(vars[int(op)%len(vars)])
		default:
			switch op % 6 {
			case 0:
				push(vars[int(op)%len(vars)])
			case 1:
				g, f := pop(), pop()
				push(b.And(f, g))
			case 2:
				g, f := pop(), pop()
				push(b.Or(f, g))
			case 3:
				g, f := pop(), pop()
				push(b.Xor(f, g))
			case 4:
				g, f := pop(), pop()
				push(b.Iff(f, g))
			case 5:
				push(b.Not(pop()))
			}
		}
	}
	if len(stack) == 0 {
		return b.True()
	}
	res := stack[0]
	for _, h := range stack[1:] {
		res = b.And(res, h)
	}
	return res
}

func TestSatSoundnessOnRandomFormulas(t *testing.T) {
	b := newTestManager(t, BDDKind())
	vars := make([]Handle, 4)
	for i := range vars {
		h, err := b.CreateBool()
		require.NoError(t, err)
		vars[i] = h
	}

	f := fuzz.New().NilChance(0).NumElements(12, 12)
	for trial := 0; trial < 2000; trial++ {
		var program []byte
		f.Fuzz(&program)
		formula := randomFormula(b, vars, program)
		require.False(t, b.Errored(), b.Error())

		w, err := b.Sat(formula)
		require.NoError(t, err)
		if w == nil {
			notW, err := b.Sat(b.Not(formula))
			require.NoError(t, err)
			require.NotNil(t, notW, "formula and its negation are both unsatisfiable")
			continue
		}
		require.True(t, w.eval(formula), "Sat witness does not satisfy the formula it was computed from")
	}
}
