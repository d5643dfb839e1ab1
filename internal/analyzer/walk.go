package analyzer

import (
	"github.com/katalvlaran/mwpflow/internal/pmatrix"
	"github.com/katalvlaran/mwpflow/internal/relation"
	"github.com/katalvlaran/mwpflow/mwpast"
)

// walkStmt implements spec §4.7 step 2's per-statement-kind inference
// rules, composing onto rel in source order and returning the updated
// relation.
func walkStmt(c *ctx, rel relation.Relation, stmt mwpast.Stmt) (relation.Relation, error) {
	switch n := stmt.(type) {
	case nil:
		return rel, nil

	case *mwpast.Block:
		for _, s := range n.Statements {
			var err error
			rel, err = walkStmt(c, rel, s)
			if err != nil {
				return relation.Relation{}, err
			}
		}

		return rel, nil

	case *mwpast.Decl:
		rel, err := relation.AddVar(rel, n.Var)
		if err != nil {
			return relation.Relation{}, err
		}
		if n.Init == nil {
			return rel, nil
		}

		return assignExpr(c, rel, n.Var, n.Init)

	case *mwpast.Assign:
		rel, err := relation.AddVar(rel, n.Target)
		if err != nil {
			return relation.Relation{}, err
		}

		return assignExpr(c, rel, n.Target, n.Value)

	case *mwpast.If:
		return walkIf(c, rel, n)

	case *mwpast.While:
		return walkWhile(c, rel, n)

	case *mwpast.For:
		return walkFor(c, rel, n)

	case *mwpast.Break, *mwpast.Continue:
		return rel, nil

	case *mwpast.Return:
		// Jump statements are identity with respect to the matrix
		// (spec §6); the returned expression names no bound narrower than
		// "every variable of the function", which bound.Extract already
		// computes over rel.Vars.
		return rel, nil

	case *mwpast.Call:
		return c.unsupported(rel, "function call statement is not analyzed inter-procedurally")

	default:
		return c.unsupported(rel, "unrecognized statement kind")
	}
}

// assignExpr implements spec §4.7's three assignment rules (constant,
// plain-variable, binary-operator), dispatching on value's concrete kind.
func assignExpr(c *ctx, rel relation.Relation, target string, value mwpast.Expr) (relation.Relation, error) {
	switch e := value.(type) {
	case *mwpast.Const:
		return relation.ComposeAssignConst(rel, target)

	case *mwpast.Var:
		rel, err := relation.AddVar(rel, e.Name)
		if err != nil {
			return relation.Relation{}, err
		}

		return relation.ComposeAssignVar(rel, target, e.Name)

	case *mwpast.BinOp:
		return assignBinOp(c, rel, target, e)

	default:
		return c.unsupported(rel, "assignment value is not a constant, variable, or binary operation")
	}
}

// assignBinOp handles "target := lhs ⊕ rhs" (spec §4.7's third rule). Each
// operand must be a bare Var or Const; anything more complex (nested
// BinOp, Call, Index, …) is an unsupported construct for this analyzer,
// since the technique's three-choice encoding is only defined for a single
// binary operation over two atoms.
func assignBinOp(c *ctx, rel relation.Relation, target string, bin *mwpast.BinOp) (relation.Relation, error) {
	lhsName, lhsIsVar, lhsOK := varOperand(bin.LHS)
	rhsName, rhsIsVar, rhsOK := varOperand(bin.RHS)
	if !lhsOK || !rhsOK {
		return c.unsupported(rel, "binary-operator assignment operand is not a constant or variable")
	}

	var err error
	if lhsIsVar {
		rel, err = relation.AddVar(rel, lhsName)
		if err != nil {
			return relation.Relation{}, err
		}
	}
	if rhsIsVar {
		rel, err = relation.AddVar(rel, rhsName)
		if err != nil {
			return relation.Relation{}, err
		}
	}

	j := c.nextChoice()

	return relation.ComposeAssignBinOp(rel, target, bin.Op, lhsName, lhsIsVar, rhsName, rhsIsVar, j)
}

// walkIf implements spec §4.7's conditional rule: analyze both arms
// independently from the current relation, then aggregate by sum
// (spec §4.5's RelationList.sum). A missing else-arm behaves as identity,
// which Sum's homogenization already produces for free for any variable
// the then-arm newly declared.
func walkIf(c *ctx, rel relation.Relation, n *mwpast.If) (relation.Relation, error) {
	thenRel, err := walkStmt(c, rel, n.Then)
	if err != nil {
		return relation.Relation{}, err
	}

	elseRel := rel
	if n.Else != nil {
		elseRel, err = walkStmt(c, rel, n.Else)
		if err != nil {
			return relation.Relation{}, err
		}
	}

	branches := relation.List{thenRel, elseRel}

	return branches.Reduce()
}

// walkWhile implements spec §4.6's unbounded-loop rule: fixpoint(analyze(B))
// composed onto the pre-loop relation. Unlike a bounded for-loop, nothing
// names how many times the body runs, so a variable that feeds back into
// itself through the body (directly or transitively) accumulates across an
// unknown number of iterations and is promoted to ∞ before the fixpoint is
// taken (internal/pmatrix.PromoteUnboundedAccumulation).
func walkWhile(c *ctx, rel relation.Relation, n *mwpast.While) (relation.Relation, error) {
	starRel, err := loopBodyFixpoint(c, rel.Vars, n.Body, true)
	if err != nil {
		return relation.Relation{}, err
	}

	return relation.Compose(rel, starRel)
}

// walkFor implements spec §4.6's bounded-loop rule plus the guard-variable
// supplement of spec §9: the prelude (Init) is analyzed first, then the
// fixpoint of body-plus-step is computed. If Cond names a single variable
// the body never writes, the fixpoint is taken without unbounded-
// accumulation promotion and that variable is additionally recorded
// as a dependency of every body-written variable (spec §4.6's "N as a
// maximal dependency"); otherwise the loop is treated as an ordinary
// unbounded while and a warning is recorded, since the guard-variable
// precondition spec §9 calls out could not be established.
func walkFor(c *ctx, rel relation.Relation, n *mwpast.For) (relation.Relation, error) {
	var err error
	if n.Init != nil {
		rel, err = walkStmt(c, rel, n.Init)
		if err != nil {
			return relation.Relation{}, err
		}
	}

	// "for(init; cond; step) body" is analyzed as "while(cond){ body; step }"
	// (spec §6): step runs once per iteration, inside the closure, not once
	// after it.
	iteration := mwpast.Stmt(n.Body)
	if n.Step != nil {
		iteration = &mwpast.Block{Statements: []mwpast.Stmt{n.Body, n.Step}}
	}

	written := writtenVars(iteration)
	guard, hasGuard := guardVar(n.Cond, written)

	// Promotion only without a guard: a bounded for-loop's iteration count
	// is named by its guard variable (recorded below as a dependency of
	// every written variable), so self-accumulation through the body is not
	// unbounded the way it is for an unconditioned while. A loop with no
	// usable guard is analyzed exactly as a while, promotion included.
	starRel, err := loopBodyFixpoint(c, rel.Vars, iteration, !hasGuard)
	if err != nil {
		return relation.Relation{}, err
	}

	rel, err = relation.Compose(rel, starRel)
	if err != nil {
		return relation.Relation{}, err
	}

	if !hasGuard {
		c.warn("for-loop bound could not be determined; analyzed as an unbounded while")

		return rel, nil
	}

	return relation.ComposeBoundedLoopGuard(rel, guard, written)
}

// loopBodyFixpoint analyzes body from a fresh identity relation over vars
// (spec §4.6 step 1's S0 = I) and returns its reflexive-transitive closure.
// When promote is true (a while, or a for-loop without a usable guard), every
// self-accumulating cell is first promoted to ∞
// (pmatrix.PromoteUnboundedAccumulation) since nothing bounds the number of
// times the body — and so that accumulation — can run.
func loopBodyFixpoint(c *ctx, vars []string, body mwpast.Stmt, promote bool) (relation.Relation, error) {
	base, err := relation.Identity(vars)
	if err != nil {
		return relation.Relation{}, err
	}
	bodyRel, err := walkStmt(c, base, body)
	if err != nil {
		return relation.Relation{}, err
	}

	bodyMatrix := bodyRel.Matrix
	if promote {
		bodyMatrix, err = pmatrix.PromoteUnboundedAccumulation(bodyMatrix)
		if err != nil {
			return relation.Relation{}, err
		}
	}

	star, err := pmatrix.Fixpoint(bodyMatrix, c.cfg.FixpointIterationCap)
	if err != nil {
		return relation.Relation{}, err
	}

	return relation.New(bodyRel.Vars, star)
}
