// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitvectorAddAllCombinations(t *testing.T) {
	b := newTestManager(t, BDDKind())
	const width = 4
	x, y, err := b.CreateInterleavedInt(width)
	require.NoError(t, err)

	sum, err := x.Add(y)
	require.NoError(t, err)

	for xv := uint64(0); xv < 1<<width; xv++ {
		for yv := uint64(0); yv < 1<<width; yv++ {
			want := (xv + yv) % (1 << width)

			xEq, err := x.Eq(b.Constant(width, xv))
			require.NoError(t, err)
			yEq, err := y.Eq(b.Constant(width, yv))
			require.NoError(t, err)
			pin := b.And(xEq, yEq)

			w, err := b.Sat(pin)
			require.NoError(t, err)
			require.NotNil(t, w)

			got, err := w.Int(sum)
			require.NoError(t, err)
			require.Equalf(t, want, got, "%d+%d mod 16", xv, yv)
		}
	}
}

func TestBitvectorSubtractIsAddInverse(t *testing.T) {
	b := newTestManager(t, BDDKind())
	x, err := b.CreateInt8()
	require.NoError(t, err)
	c := b.Constant(8, 17)

	sum, err := x.Add(c)
	require.NoError(t, err)
	back, err := sum.Subtract(c)
	require.NoError(t, err)

	eqHandle, err := back.Eq(x)
	require.NoError(t, err)
	require.True(t, eqHandle.Equal(b.True()))
}

func TestBitvectorUnsignedComparators(t *testing.T) {
	b := newTestManager(t, BDDKind())
	x, y, err := b.CreateInterleavedInt(3)
	require.NoError(t, err)

	for xv := uint64(0); xv < 8; xv++ {
		for yv := uint64(0); yv < 8; yv++ {
			xEq, err := x.Eq(b.Constant(3, xv))
			require.NoError(t, err)
			yEq, err := y.Eq(b.Constant(3, yv))
			require.NoError(t, err)
			pin := b.And(xEq, yEq)

			lt, err := x.Lt(y)
			require.NoError(t, err)
			got := b.And(pin, lt)
			w, err := b.Sat(got)
			require.NoError(t, err)
			require.Equal(t, xv < yv, w != nil, "%d<%d", xv, yv)
		}
	}
}

func TestBitvectorSignedComparators(t *testing.T) {
	b := newTestManager(t, BDDKind())
	x, y, err := b.CreateInterleavedInt(4)
	require.NoError(t, err)

	toSigned := func(u uint64) int64 {
		v := int64(u)
		if u&0x8 != 0 {
			v -= 16
		}
		return v
	}

	for xv := uint64(0); xv < 16; xv++ {
		for yv := uint64(0); yv < 16; yv++ {
			xEq, err := x.Eq(b.Constant(4, xv))
			require.NoError(t, err)
			yEq, err := y.Eq(b.Constant(4, yv))
			require.NoError(t, err)
			pin := b.And(xEq, yEq)

			lt, err := x.SignedLt(y)
			require.NoError(t, err)
			got := b.And(pin, lt)
			w, err := b.Sat(got)
			require.NoError(t, err)
			require.Equal(t, toSigned(xv) < toSigned(yv), w != nil, "%d<%d (signed)", toSigned(xv), toSigned(yv))
		}
	}
}

func TestBitvectorShiftBounds(t *testing.T) {
	b := newTestManager(t, BDDKind())
	v, err := b.CreateInt8()
	require.NoError(t, err)

	_, err = v.ShiftLeft(8)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = v.ShiftLeft(-1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	shifted, err := v.ShiftLeft(0)
	require.NoError(t, err)
	eqHandle, err := shifted.Eq(v)
	require.NoError(t, err)
	require.True(t, eqHandle.Equal(b.True()))
}

func TestBitvectorMismatchedSize(t *testing.T) {
	b := newTestManager(t, BDDKind())
	v8, err := b.CreateInt8()
	require.NoError(t, err)
	v16, err := b.CreateInt16()
	require.NoError(t, err)

	_, err = v8.Add(v16)
	require.ErrorIs(t, err, ErrMismatchedSize)
}

func TestBitvectorIte(t *testing.T) {
	b := newTestManager(t, BDDKind())
	cond, err := b.CreateBool()
	require.NoError(t, err)
	x, err := b.CreateInt8()
	require.NoError(t, err)
	y := b.Constant(8, 42)

	mux, err := x.Ite(cond, y)
	require.NoError(t, err)

	xEq, err := x.Eq(b.Constant(8, 9))
	require.NoError(t, err)

	wTrue, err := b.Sat(b.And(cond, xEq))
	require.NoError(t, err)
	require.NotNil(t, wTrue)
	got, err := wTrue.Int(mux)
	require.NoError(t, err)
	require.EqualValues(t, 9, got)

	wFalse, err := b.Sat(b.And(b.Not(cond), xEq))
	require.NoError(t, err)
	require.NotNil(t, wFalse)
	got, err = wFalse.Int(mux)
	require.NoError(t, err)
	require.EqualValues(t, 42, got)
}
