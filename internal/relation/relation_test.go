package relation_test

import (
	"testing"

	"github.com/katalvlaran/mwpflow/internal/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAlignsDifferentVarLists(t *testing.T) {
	r1, err := relation.Identity([]string{"x", "y"})
	require.NoError(t, err)
	r2, err := relation.Identity([]string{"y", "z"})
	require.NoError(t, err)

	composed, err := relation.Compose(r1, r2)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, composed.Vars)
	assert.Equal(t, 3, composed.Matrix.N())
}

func TestComposeAssignVar(t *testing.T) {
	r, err := relation.Identity([]string{"x", "y"})
	require.NoError(t, err)

	r2, err := relation.ComposeAssignVar(r, "y", "x")
	require.NoError(t, err)

	p, err := r2.At("x", "y")
	require.NoError(t, err)
	assert.False(t, p.IsZero())
}

func TestComposeAssignConstZeroesColumn(t *testing.T) {
	r, err := relation.Identity([]string{"x", "y"})
	require.NoError(t, err)

	r2, err := relation.ComposeAssignConst(r, "y")
	require.NoError(t, err)

	p, err := r2.At("x", "y")
	require.NoError(t, err)
	assert.True(t, p.IsZero())

	self, err := r2.At("y", "y")
	require.NoError(t, err)
	assert.True(t, self.IsZero(), "constant assignment introduces no dependency, even on itself")
}

func TestListReduceSumsBranches(t *testing.T) {
	r1, _ := relation.Identity([]string{"x"})
	r2, _ := relation.Identity([]string{"x", "y"})
	list := relation.List{r1, r2}

	reduced, err := list.Reduce()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y"}, reduced.Vars)
}

func TestListReduceEmptyErrors(t *testing.T) {
	_, err := relation.List{}.Reduce()
	assert.ErrorIs(t, err, relation.ErrEmptyList)
}

func TestAddVarExtendsIdentity(t *testing.T) {
	r, err := relation.Identity([]string{"x"})
	require.NoError(t, err)

	r2, err := relation.AddVar(r, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, r2.Vars)

	p, err := r2.At("y", "y")
	require.NoError(t, err)
	assert.False(t, p.IsZero(), "a freshly added variable starts as its own identity")
}

func TestAddVarIsNoOpWhenPresent(t *testing.T) {
	r, err := relation.Identity([]string{"x", "y"})
	require.NoError(t, err)

	r2, err := relation.AddVar(r, "y")
	require.NoError(t, err)
	assert.Equal(t, r.Vars, r2.Vars)
}

func TestComposeAssignBinOpAddsBothOperandsAsSources(t *testing.T) {
	r, err := relation.Identity([]string{"x", "y", "z"})
	require.NoError(t, err)

	r2, err := relation.ComposeAssignBinOp(r, "z", "+", "x", true, "y", true, 0)
	require.NoError(t, err)

	fromX, err := r2.At("x", "z")
	require.NoError(t, err)
	fromY, err := r2.At("y", "z")
	require.NoError(t, err)
	assert.False(t, fromX.IsZero())
	assert.False(t, fromY.IsZero())
}

func TestComposeAssignBinOpLiteralOperandContributesNoSourceRow(t *testing.T) {
	r, err := relation.Identity([]string{"x", "y"})
	require.NoError(t, err)

	r2, err := relation.ComposeAssignBinOp(r, "y", "+", "x", true, "", false, 0)
	require.NoError(t, err)

	fromX, err := r2.At("x", "y")
	require.NoError(t, err)
	assert.False(t, fromX.IsZero())
}

func TestComposeBoundedLoopGuardAddsGuardDependency(t *testing.T) {
	r, err := relation.Identity([]string{"n", "acc"})
	require.NoError(t, err)

	r2, err := relation.ComposeBoundedLoopGuard(r, "n", []string{"acc"})
	require.NoError(t, err)

	fromGuard, err := r2.At("n", "acc")
	require.NoError(t, err)
	assert.False(t, fromGuard.IsZero(), "every written variable depends on the guard")

	guardSelf, err := r2.At("n", "n")
	require.NoError(t, err)
	assert.False(t, guardSelf.IsZero(), "the guard variable itself is left untouched, not zeroed")
}
