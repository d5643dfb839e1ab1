package bound_test

import (
	"testing"

	"github.com/katalvlaran/mwpflow/internal/bound"
	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/katalvlaran/mwpflow/internal/monomial"
	"github.com/katalvlaran/mwpflow/internal/polynomial"
	"github.com/katalvlaran/mwpflow/internal/relation"
	"github.com/katalvlaran/mwpflow/internal/scalar"
	"github.com/katalvlaran/mwpflow/mwpresult"
	"github.com/stretchr/testify/require"
)

func TestExtractSimpleDoubling(t *testing.T) {
	// y2 = y1 + y1 : y1' <= y1, y2' <= y1 (end-to-end scenario 1 of spec §8).
	vars := []string{"y1", "y2"}
	rel, err := relation.Identity(vars)
	require.NoError(t, err)

	d := delta.Sequence{delta.New(0, 0)}
	p := polynomial.New(monomial.New(scalar.P, d))
	require.NoError(t, rel.Matrix.Set(0, 1, p))                // y1 -> y2, scalar p
	require.NoError(t, rel.Matrix.Set(1, 1, polynomial.Zero)) // assignment overwrites y2's own prior value

	witness := delta.Vector{{true, false, true}}
	bounds, err := bound.Extract(rel, witness)
	require.NoError(t, err)
	require.Len(t, bounds, 2)

	require.Equal(t, "y1' <= y1", bound.Render(bounds[0]))
	require.Equal(t, "y2' <= y1", bound.Render(bounds[1]))
}

func TestExtractRejectsInfiniteWitness(t *testing.T) {
	vars := []string{"x"}
	rel, err := relation.Identity(vars)
	require.NoError(t, err)
	require.NoError(t, rel.Matrix.Set(0, 0, polynomial.New(monomial.New(scalar.Infinite, nil))))

	_, err = bound.Extract(rel, delta.Vector{})
	require.ErrorIs(t, err, bound.ErrInfiniteWitness)
}

func TestRenderSimplifications(t *testing.T) {
	require.Equal(t, "x' <= x", bound.Render(mwpBound("x", []string{"x"}, nil)))
	require.Equal(t, "x' <= max(a,b)", bound.Render(mwpBound("x", []string{"a", "b"}, nil)))
	require.Equal(t, "x' <= a+b", bound.Render(mwpBound("x", nil, [][]string{{"a"}, {"b"}})))
	require.Equal(t, "x' <= a*b", bound.Render(mwpBound("x", nil, [][]string{{"a", "b"}})))
	require.Equal(t, "x' <= 0", bound.Render(mwpBound("x", nil, nil)))
	require.Equal(t, "x' <= max(a,b)+c", bound.Render(mwpBound("x", []string{"a", "b"}, [][]string{{"c"}})))
}

func mwpBound(v string, maxVars []string, polyVars [][]string) mwpresult.Bound {
	return mwpresult.Bound{Var: v, MaxVars: maxVars, PolyVars: polyVars}
}
