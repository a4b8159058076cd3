// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsNilFactory(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewRejectsNegativeNodesize(t *testing.T) {
	_, err := New(BDDKind(), Nodesize(-1))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewRejectsNegativeGCCutoff(t *testing.T) {
	_, err := New(BDDKind(), GCCutoff(-8))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewAcceptsZeroMaxnodesizeAsUnlimited(t *testing.T) {
	b, err := New(BDDKind(), Maxnodesize(0))
	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestVariableOrderingRejectsNonBijection(t *testing.T) {
	b := newTestManager(t, BDDKind())

	// i -> i+1 is not a permutation of [0,8): index 0 is never produced and
	// i=7 maps to 8, outside the range.
	shiftUp := make([]int, 8)
	for i := range shiftUp {
		shiftUp[i] = i + 1
	}
	_, err := b.CreateInt(8, shiftUp)
	require.ErrorIs(t, err, ErrInvalidArgument)

	mod4 := make([]int, 8)
	for i := range mod4 {
		mod4[i] = i % 4
	}
	_, err = b.CreateInt(8, mod4)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCBDDCapacityExhaustedAt32768Booleans(t *testing.T) {
	b := newTestManager(t, CBDDKind())
	for i := 0; i < 32767; i++ {
		_, err := b.CreateBool()
		require.NoError(t, err)
	}
	_, err := b.CreateBool()
	require.ErrorIs(t, err, ErrCapacityExhausted)
}

func TestBDDAllowsMoreThan32767Booleans(t *testing.T) {
	b := newTestManager(t, BDDKind())
	for i := 0; i < 32768; i++ {
		_, err := b.CreateBool()
		require.NoError(t, err)
	}
}

func TestIthvarOutOfRange(t *testing.T) {
	b := newTestManager(t, BDDKind())
	_, err := b.Ithvar(0)
	require.ErrorIs(t, err, ErrUnknownVariable)
}

func TestLowHighOnConstantIsInvalid(t *testing.T) {
	b := newTestManager(t, BDDKind())
	_, err := b.Low(b.True())
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = b.High(b.False())
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLowHighMatchVariableStructure(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, _ := threeBools(t, b)
	f := b.And(a, c)

	low, err := b.Low(f)
	require.NoError(t, err)
	high, err := b.High(f)
	require.NoError(t, err)
	require.True(t, low.Equal(b.False()))
	require.True(t, high.Equal(c))

	v, err := b.Variable(f)
	require.NoError(t, err)
	ra, err := b.Variable(a)
	require.NoError(t, err)
	require.Equal(t, ra, v)
}

func TestSkipIsZeroOnBDD(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, _, _ := threeBools(t, b)
	s, err := b.Skip(a)
	require.NoError(t, err)
	require.EqualValues(t, 0, s)
}
