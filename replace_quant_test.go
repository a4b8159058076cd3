// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExistsAbsorption(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, _ := threeBools(t, b)

	ra, err := b.Variable(a)
	require.NoError(t, err)
	cube, err := b.CreateVariableSet([]int32{ra})
	require.NoError(t, err)

	// Exists(And(c, a), {a}) = c, since a does not appear in c.
	g := c
	lhs := b.Exists(b.And(g, a), cube)
	require.True(t, lhs.Equal(g))
}

func TestExistsOnEmptyVariableSetIsIdentity(t *testing.T) {
	b := newTestManager(t, BDDKind())
	_, c, _ := threeBools(t, b)
	empty, err := b.Cube(nil)
	require.NoError(t, err)
	require.True(t, b.Exists(c, empty).Equal(c))
}

func TestForallIsNotExistsOfNot(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, _ := threeBools(t, b)
	ra, err := b.Variable(a)
	require.NoError(t, err)
	cube, err := b.Cube([]int32{ra})
	require.NoError(t, err)

	f := b.Or(a, c)
	lhs := b.Forall(f, cube)
	rhs := b.Not(b.Exists(b.Not(f), cube))
	require.True(t, lhs.Equal(rhs))
}

func TestAppExMatchesMaterializedAndThenExists(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, d := threeBools(t, b)
	ra, err := b.Variable(a)
	require.NoError(t, err)
	cube, err := b.Cube([]int32{ra})
	require.NoError(t, err)

	materialized := b.Exists(b.And(c, d), cube)
	fused := b.AppEx(c, d, AppAnd, cube)
	require.True(t, materialized.Equal(fused))
}

func TestReplaceIdentityMap(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, _ := threeBools(t, b)
	f := b.And(a, c)
	vm, err := b.CreateVariableMap(nil, nil)
	require.NoError(t, err)
	require.True(t, b.Replace(f, vm).Equal(f))
}

func TestReplaceIsInvolutiveWhenImageIsFresh(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, _ := threeBools(t, b)
	e, err := b.CreateBool() // e does not appear in f below
	require.NoError(t, err)

	ra, err := b.Variable(a)
	require.NoError(t, err)
	re, err := b.Variable(e)
	require.NoError(t, err)

	forward, err := b.CreateVariableMap([]int32{ra}, []int32{re})
	require.NoError(t, err)
	backward, err := b.CreateVariableMap([]int32{re}, []int32{ra})
	require.NoError(t, err)

	f := b.And(a, c)
	roundTrip := b.Replace(b.Replace(f, forward), backward)
	require.True(t, roundTrip.Equal(f))
}

func TestReplaceRejectsRepeatedSourceRank(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, _, _ := threeBools(t, b)
	ra, err := b.Variable(a)
	require.NoError(t, err)
	_, err = b.CreateVariableMap([]int32{ra, ra}, []int32{0, 1})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateVariableMapVectorsRejectsWidthMismatch(t *testing.T) {
	b := newTestManager(t, BDDKind())
	v8, err := b.CreateInt8()
	require.NoError(t, err)
	v16, err := b.CreateInt16()
	require.NoError(t, err)
	_, err = b.CreateVariableMapVectors([]*BitVector{v8}, []*BitVector{v16})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCreateVariableMapVectorsRenamesEachBit(t *testing.T) {
	b := newTestManager(t, BDDKind())
	x, err := b.CreateInt8()
	require.NoError(t, err)
	y, err := b.CreateInt8()
	require.NoError(t, err)

	vm, err := b.CreateVariableMapVectors([]*BitVector{x}, []*BitVector{y})
	require.NoError(t, err)

	xEq, err := x.Eq(b.Constant(8, 200))
	require.NoError(t, err)
	renamed := b.Replace(xEq, vm)

	yEq, err := y.Eq(b.Constant(8, 200))
	require.NoError(t, err)
	require.True(t, renamed.Equal(yEq))
}

func TestComposeSubstitutesFunction(t *testing.T) {
	b := newTestManager(t, BDDKind())
	a, c, d := threeBools(t, b)
	ra, err := b.Variable(a)
	require.NoError(t, err)

	f := b.And(a, c)
	g := d
	composed := b.Compose(f, ra, g)
	want := b.And(d, c)
	require.True(t, composed.Equal(want))
}
