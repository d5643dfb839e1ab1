package mwplang_test

import (
	"testing"

	"github.com/katalvlaran/mwpflow/mwpast"
	"github.com/katalvlaran/mwpflow/mwplang"
	"github.com/stretchr/testify/require"
)

func TestDesugarIncrement(t *testing.T) {
	prog := &mwpast.Program{Functions: []*mwpast.Function{{
		Name:   "foo",
		Params: []string{"x"},
		Body: &mwpast.Block{Statements: []mwpast.Stmt{
			&mwpast.Assign{Target: "x", Value: &mwpast.UnOp{Op: "++", Arg: &mwpast.Var{Name: "x"}}},
		}},
	}}}

	out := mwplang.Desugar(prog)

	block := out.Functions[0].Body.(*mwpast.Block)
	assign := block.Statements[0].(*mwpast.Assign)
	bin, ok := assign.Value.(*mwpast.BinOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
	require.Equal(t, "x", bin.LHS.(*mwpast.Var).Name)
	require.Equal(t, "1", bin.RHS.(*mwpast.Const).Value)
}

func TestDesugarUnaryMinusAndNot(t *testing.T) {
	prog := &mwpast.Program{Functions: []*mwpast.Function{{
		Name:   "foo",
		Params: []string{"x", "y"},
		Body: &mwpast.Block{Statements: []mwpast.Stmt{
			&mwpast.Assign{Target: "x", Value: &mwpast.UnOp{Op: "-", Arg: &mwpast.Var{Name: "x"}}},
			&mwpast.Assign{Target: "y", Value: &mwpast.UnOp{Op: "!", Arg: &mwpast.Var{Name: "y"}}},
		}},
	}}}

	out := mwplang.Desugar(prog)
	block := out.Functions[0].Body.(*mwpast.Block)

	negate := block.Statements[0].(*mwpast.Assign).Value.(*mwpast.BinOp)
	require.Equal(t, "-", negate.Op)
	require.Equal(t, "0", negate.LHS.(*mwpast.Const).Value)

	not := block.Statements[1].(*mwpast.Assign).Value.(*mwpast.BinOp)
	require.Equal(t, "-", not.Op)
	require.Equal(t, "1", not.LHS.(*mwpast.Const).Value)
}

func TestDesugarRecursesIntoNestedStatements(t *testing.T) {
	prog := &mwpast.Program{Functions: []*mwpast.Function{{
		Name:   "foo",
		Params: []string{"n", "acc"},
		Body: &mwpast.Block{Statements: []mwpast.Stmt{
			&mwpast.While{
				Cond: &mwpast.Var{Name: "n"},
				Body: &mwpast.Block{Statements: []mwpast.Stmt{
					&mwpast.Assign{Target: "n", Value: &mwpast.UnOp{Op: "--", Arg: &mwpast.Var{Name: "n"}}},
				}},
			},
		}},
	}}}

	out := mwplang.Desugar(prog)
	wh := out.Functions[0].Body.(*mwpast.Block).Statements[0].(*mwpast.While)
	inner := wh.Body.(*mwpast.Block).Statements[0].(*mwpast.Assign)
	bin, ok := inner.Value.(*mwpast.BinOp)
	require.True(t, ok)
	require.Equal(t, "-", bin.Op)
	require.Equal(t, "1", bin.RHS.(*mwpast.Const).Value)
}
