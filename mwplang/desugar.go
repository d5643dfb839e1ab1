package mwplang

import "github.com/katalvlaran/mwpflow/mwpast"

// Desugar rewrites the -, !, ++ and -- UnOp nodes in prog into their
// binary-equivalent forms (any other unary operator is left in place)
// (spec §9: "an input preprocessing step... not part of the core algebra"),
// so internal/analyzer never has to special-case a unary operator:
//
//	-x   -> 0 - x
//	!x   -> 1 - x   (boolean complement under the 0/1 convention this toy
//	                 language's conditions otherwise rely on)
//	x++  -> x + 1
//	x--  -> x - 1
//
// It returns a new Program; the input is left untouched.
func Desugar(prog *mwpast.Program) *mwpast.Program {
	out := &mwpast.Program{Functions: make([]*mwpast.Function, len(prog.Functions))}
	for i, fn := range prog.Functions {
		out.Functions[i] = &mwpast.Function{
			Name:   fn.Name,
			Params: append([]string(nil), fn.Params...),
			Body:   desugarStmt(fn.Body),
		}
	}

	return out
}

func desugarStmt(s mwpast.Stmt) mwpast.Stmt {
	switch n := s.(type) {
	case nil:
		return nil

	case *mwpast.Block:
		stmts := make([]mwpast.Stmt, len(n.Statements))
		for i, st := range n.Statements {
			stmts[i] = desugarStmt(st)
		}

		return &mwpast.Block{Statements: stmts}

	case *mwpast.Decl:
		return &mwpast.Decl{Var: n.Var, Init: desugarExpr(n.Init)}

	case *mwpast.Assign:
		return &mwpast.Assign{Target: n.Target, Value: desugarExpr(n.Value)}

	case *mwpast.If:
		return &mwpast.If{Cond: desugarExpr(n.Cond), Then: desugarStmt(n.Then), Else: desugarStmt(n.Else)}

	case *mwpast.While:
		return &mwpast.While{Cond: desugarExpr(n.Cond), Body: desugarStmt(n.Body)}

	case *mwpast.For:
		return &mwpast.For{
			Init: desugarStmt(n.Init),
			Cond: desugarExpr(n.Cond),
			Step: desugarStmt(n.Step),
			Body: desugarStmt(n.Body),
		}

	case *mwpast.Return:
		return &mwpast.Return{Value: desugarExpr(n.Value)}

	case *mwpast.Call:
		return desugarExpr(n).(mwpast.Stmt)

	case *mwpast.Break, *mwpast.Continue:
		return n

	default:
		return n
	}
}

func desugarExpr(e mwpast.Expr) mwpast.Expr {
	switch n := e.(type) {
	case nil:
		return nil

	case *mwpast.UnOp:
		arg := desugarExpr(n.Arg)
		switch n.Op {
		case "-":
			return &mwpast.BinOp{Op: "-", LHS: &mwpast.Const{Value: "0"}, RHS: arg}
		case "!":
			return &mwpast.BinOp{Op: "-", LHS: &mwpast.Const{Value: "1"}, RHS: arg}
		case "++":
			return &mwpast.BinOp{Op: "+", LHS: arg, RHS: &mwpast.Const{Value: "1"}}
		case "--":
			return &mwpast.BinOp{Op: "-", LHS: arg, RHS: &mwpast.Const{Value: "1"}}
		default:
			return &mwpast.UnOp{Op: n.Op, Arg: arg}
		}

	case *mwpast.BinOp:
		return &mwpast.BinOp{Op: n.Op, LHS: desugarExpr(n.LHS), RHS: desugarExpr(n.RHS)}

	case *mwpast.Call:
		args := make([]mwpast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = desugarExpr(a)
		}

		return &mwpast.Call{Callee: n.Callee, Args: args}

	case *mwpast.Index:
		return &mwpast.Index{Base: desugarExpr(n.Base), Index: desugarExpr(n.Index)}

	case *mwpast.Deref:
		return &mwpast.Deref{Operand: desugarExpr(n.Operand)}

	case *mwpast.AddrOf:
		return &mwpast.AddrOf{Operand: desugarExpr(n.Operand)}

	case *mwpast.Var, *mwpast.Const:
		return n

	default:
		return n
	}
}
