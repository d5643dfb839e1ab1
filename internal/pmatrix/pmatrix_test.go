package pmatrix_test

import (
	"testing"

	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/katalvlaran/mwpflow/internal/monomial"
	"github.com/katalvlaran/mwpflow/internal/pmatrix"
	"github.com/katalvlaran/mwpflow/internal/polynomial"
	"github.com/katalvlaran/mwpflow/internal/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mCell(s scalar.Scalar) polynomial.Polynomial {
	return polynomial.FromScalar(s)
}

func TestIdentityLaw(t *testing.T) {
	n := 3
	id, err := pmatrix.Identity(n)
	require.NoError(t, err)

	a, _ := pmatrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				_ = a.Set(i, j, mCell(scalar.M))
			} else {
				_ = a.Set(i, j, mCell(scalar.W))
			}
		}
	}

	ia, err := pmatrix.Product(id, a)
	require.NoError(t, err)
	assert.True(t, pmatrix.Equals(ia, a), "I*A = A")

	ai, err := pmatrix.Product(a, id)
	require.NoError(t, err)
	assert.True(t, pmatrix.Equals(ai, a), "A*I = A")
}

func TestCompositionAssociative(t *testing.T) {
	n := 2
	a, _ := pmatrix.New(n)
	b, _ := pmatrix.New(n)
	c, _ := pmatrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			_ = a.Set(i, j, mCell(scalar.M))
			_ = b.Set(i, j, mCell(scalar.W))
			_ = c.Set(i, j, mCell(scalar.P))
		}
	}

	ab, _ := pmatrix.Product(a, b)
	abc1, _ := pmatrix.Product(ab, c)

	bc, _ := pmatrix.Product(b, c)
	abc2, _ := pmatrix.Product(a, bc)

	assert.True(t, pmatrix.Equals(abc1, abc2), "(AB)C = A(BC)")
}

func TestFixpointPostcondition(t *testing.T) {
	n := 2
	r, _ := pmatrix.New(n)
	_ = r.Set(0, 1, mCell(scalar.W))
	_ = r.Set(1, 1, mCell(scalar.M))
	_ = r.Set(0, 0, mCell(scalar.M))
	_ = r.Set(1, 0, polynomial.Zero)

	star, err := pmatrix.Fixpoint(r, 1000)
	require.NoError(t, err)

	starR, err := pmatrix.Product(star, r)
	require.NoError(t, err)
	union, err := pmatrix.Sum(star, starR)
	require.NoError(t, err)

	assert.True(t, pmatrix.Equals(union, star), "fixpoint(A) = fixpoint(A) ⊔ fixpoint(A)·A")
}

func TestFixpointTerminatesWithinCap(t *testing.T) {
	n := 1
	r, _ := pmatrix.New(n)
	_ = r.Set(0, 0, mCell(scalar.W))
	_, err := pmatrix.Fixpoint(r, 100)
	require.NoError(t, err)
}

func TestResizeHomogenizes(t *testing.T) {
	a, _ := pmatrix.New(1)
	d := delta.Sequence{delta.New(0, 0)}
	_ = a.Set(0, 0, polynomial.New(monomial.New(scalar.P, d)))

	resized, err := pmatrix.Resize(a, 3, pmatrix.IndexMapping{1})
	require.NoError(t, err)

	got, _ := resized.At(1, 1)
	assert.True(t, got.Equal(polynomial.New(monomial.New(scalar.P, d))))

	zeroRow, _ := resized.At(0, 0)
	assert.True(t, zeroRow.Equal(mCell(scalar.M)), "uncovered diagonal filled with m")

	offDiag, _ := resized.At(0, 1)
	assert.True(t, offDiag.IsZero(), "uncovered off-diagonal filled with 0")
}

func TestSumElementwise(t *testing.T) {
	a, _ := pmatrix.New(1)
	_ = a.Set(0, 0, mCell(scalar.M))
	b, _ := pmatrix.New(1)
	_ = b.Set(0, 0, mCell(scalar.W))

	sum, err := pmatrix.Sum(a, b)
	require.NoError(t, err)
	got, _ := sum.At(0, 0)
	assert.True(t, got.Equal(mCell(scalar.W)), "m lub w = w")
}

func TestPromoteUnboundedAccumulationPromotesSelfReference(t *testing.T) {
	// column 1 ("p") is both written (not the untouched identity column)
	// and reads its own prior value, modeling "p = p*p" in a loop body.
	n := 2
	r, _ := pmatrix.New(n)
	_ = r.Set(0, 0, mCell(scalar.M))
	_ = r.Set(1, 1, mCell(scalar.P))

	promoted, err := pmatrix.PromoteUnboundedAccumulation(r)
	require.NoError(t, err)

	untouched, _ := promoted.At(0, 0)
	assert.True(t, untouched.Equal(mCell(scalar.M)), "an untouched column is never promoted")

	selfRef, _ := promoted.At(1, 1)
	assert.True(t, selfRef.Equal(mCell(scalar.Infinite)), "self-referencing write accumulates unboundedly")
}

func TestPromoteUnboundedAccumulationSparesNonSelfReferencingWrite(t *testing.T) {
	// column 0 ("X0") is written only from column 1 ("X1"), never from
	// itself — e.g. "X0 = X1+X2" inside a while — so it must stay finite.
	n := 2
	r, _ := pmatrix.New(n)
	_ = r.Set(1, 0, mCell(scalar.M))
	_ = r.Set(1, 1, mCell(scalar.M))

	promoted, err := pmatrix.PromoteUnboundedAccumulation(r)
	require.NoError(t, err)

	fromOther, _ := promoted.At(1, 0)
	assert.True(t, fromOther.Equal(mCell(scalar.M)), "no self-reference means no promotion")
}
