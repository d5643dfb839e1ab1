package choice_test

import (
	"testing"

	"github.com/katalvlaran/mwpflow/internal/choice"
	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyFailureSetYieldsSingleFullVector(t *testing.T) {
	res, err := choice.Simplify(2, nil, 0)
	require.NoError(t, err)
	require.False(t, res.Infinite)
	require.Len(t, res.Vectors, 1)
	assert.Equal(t, choice.FullVector(2), res.Vectors[0])
}

func TestIndexZeroYieldsEmptyVectorListByConvention(t *testing.T) {
	res, err := choice.Simplify(0, nil, 0)
	require.NoError(t, err)
	assert.False(t, res.Infinite)
	assert.Empty(t, res.Vectors)
}

func TestUnconditionalFailureIsInfinite(t *testing.T) {
	res, err := choice.Simplify(1, []delta.Sequence{{}}, 0)
	require.NoError(t, err)
	assert.True(t, res.Infinite)
}

func TestSingleDeltaFailureBlocksOneValue(t *testing.T) {
	res, err := choice.Simplify(1, []delta.Sequence{{delta.New(1, 0)}}, 0)
	require.NoError(t, err)
	require.False(t, res.Infinite)
	require.Len(t, res.Vectors, 1)
	v := res.Vectors[0]
	assert.True(t, v.Allows(0, 0))
	assert.False(t, v.Allows(0, 1))
	assert.True(t, v.Allows(0, 2))
}

func TestFullDomainAtOneIndexIsInfinite(t *testing.T) {
	// All three domain values forced at index 0 => no escape => infinite.
	res, err := choice.Simplify(1, []delta.Sequence{
		{delta.New(0, 0)},
		{delta.New(1, 0)},
		{delta.New(2, 0)},
	}, 0)
	require.NoError(t, err)
	assert.True(t, res.Infinite)
}

func TestEveryVectorAvoidsEveryFailureSequence(t *testing.T) {
	failures := []delta.Sequence{
		{delta.New(0, 0), delta.New(1, 1)},
		{delta.New(2, 0)},
	}
	res, err := choice.Simplify(2, failures, 0)
	require.NoError(t, err)
	require.False(t, res.Infinite)

	for _, v := range res.Vectors {
		for _, f := range failures {
			assert.False(t, vectorSatisfies(v, f), "vector %v must avoid failure sequence %v", v, f)
		}
	}
}

// vectorSatisfies reports whether every delta of f remains allowed by v —
// i.e. v fails to avoid the failure sequence f.
func vectorSatisfies(v choice.Vector, f delta.Sequence) bool {
	for _, d := range f {
		if !v.Allows(d.Index, d.Value) {
			return false
		}
	}

	return true
}

func TestNoOutputVectorIsSubsumedByAnother(t *testing.T) {
	failures := []delta.Sequence{
		{delta.New(0, 0)},
		{delta.New(1, 1)},
	}
	res, err := choice.Simplify(2, failures, 0)
	require.NoError(t, err)
	require.False(t, res.Infinite)

	for i, a := range res.Vectors {
		for j, b := range res.Vectors {
			if i == j {
				continue
			}
			assert.False(t, a.SubsetOf(b), "vector %d is subsumed by vector %d", i, j)
		}
	}
}

func TestSubsetSequenceDiscardsSuperset(t *testing.T) {
	// {(0,0)} subsumes {(0,0),(1,1)}: the shorter sequence alone is enough
	// to force failure, so the result must be identical to analyzing just
	// the shorter sequence on its own.
	short := []delta.Sequence{{delta.New(0, 0)}}
	long := []delta.Sequence{{delta.New(0, 0)}, {delta.New(0, 0), delta.New(1, 1)}}

	resShort, err := choice.Simplify(2, short, 0)
	require.NoError(t, err)
	resLong, err := choice.Simplify(2, long, 0)
	require.NoError(t, err)

	require.Equal(t, resShort.Infinite, resLong.Infinite)
	require.Len(t, resLong.Vectors, len(resShort.Vectors))
}
