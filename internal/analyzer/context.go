// Package analyzer walks an mwpast.Function body and produces its
// mwpresult.Result, implementing spec §4.7's per-statement inference rules
// on top of internal/relation's composition primitives. It mirrors the
// teacher pack's hook-driven walker shape (algorithms/dfs.go's dfsWalker,
// algorithms/bfs.go's BFSOptions): an explicit state struct threaded through
// recursive descent, rather than closures capturing mutable locals.
package analyzer

import (
	"fmt"

	"github.com/katalvlaran/mwpflow/config"
	"github.com/katalvlaran/mwpflow/internal/relation"
	"github.com/katalvlaran/mwpflow/mwpast"
	"github.com/katalvlaran/mwpflow/mwpresult"
)

// errUnsupportedStrict signals that strict mode rejected the function;
// walkStmt and the assignment helpers return it to unwind the whole
// traversal.
type errUnsupportedStrict struct {
	reason string
}

func (e *errUnsupportedStrict) Error() string {
	return fmt.Sprintf("analyzer: unsupported construct in strict mode: %s", e.reason)
}

// ctx carries the per-function state threaded through the recursive
// traversal: the monotonically increasing choice-index counter (spec §3),
// the configured policy, and the warnings accumulated so far. The known
// variable set travels in the Relation passed alongside it, not here. Its lifetime is exactly one AnalyzeFunction call
// (spec §4.10's analyzer-context state machine).
type ctx struct {
	cfg         config.Config
	choiceIndex int
	warnings    []mwpresult.Warning
}

func newCtx(cfg config.Config) *ctx {
	return &ctx{cfg: cfg}
}

// nextChoice allocates and returns the next choice index (spec §3).
func (c *ctx) nextChoice() int {
	j := c.choiceIndex
	c.choiceIndex++

	return j
}

// warn records a skipped-construct warning (spec §7's default policy).
func (c *ctx) warn(reason string) {
	c.cfg.Logger.Debug().Str("reason", reason).Msg("analyzer: skipping unsupported construct")
	c.warnings = append(c.warnings, mwpresult.Warning{Reason: reason})
}

// unsupported applies spec §7's unsupported-syntax policy: strict mode
// aborts the function, skip mode records a warning and leaves rel
// untouched (never silently treated as identity "by accident" — the
// no-op here is an explicit, policy-selected choice).
func (c *ctx) unsupported(rel relation.Relation, reason string) (relation.Relation, error) {
	if c.cfg.Unsupported == config.PolicyStrict {
		return relation.Relation{}, &errUnsupportedStrict{reason: reason}
	}
	c.warn(reason)

	return rel, nil
}

// writtenVars collects, in first-occurrence order, every variable named as
// an Assign target or declared with an initializer (Decl with Init)
// anywhere within stmt (recursing into Block/If/While/For
// but never into Call — inter-procedural writes are out of scope per
// spec §1). Used by the for-loop guard-variable supplement (spec §9).
func writtenVars(stmt mwpast.Stmt) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var walk func(mwpast.Stmt)
	walk = func(s mwpast.Stmt) {
		switch n := s.(type) {
		case nil:
		case *mwpast.Block:
			for _, st := range n.Statements {
				walk(st)
			}
		case *mwpast.Decl:
			if n.Init != nil {
				add(n.Var)
			}
		case *mwpast.Assign:
			add(n.Target)
		case *mwpast.If:
			walk(n.Then)
			walk(n.Else)
		case *mwpast.While:
			walk(n.Body)
		case *mwpast.For:
			walk(n.Init)
			walk(n.Body)
			walk(n.Step)
		}
	}
	walk(stmt)

	return out
}

// guardVar reports the single Var reference in cond that is not among
// written, under the spec §9 assumption that a bounded for-loop's guard
// names exactly one such variable. ok is false when zero or more than one
// candidate is found, in which case the caller falls back to unbounded
// while-style treatment.
func guardVar(cond mwpast.Expr, written []string) (name string, ok bool) {
	isWritten := make(map[string]bool, len(written))
	for _, w := range written {
		isWritten[w] = true
	}

	var candidates []string
	seen := make(map[string]bool)
	var walk func(mwpast.Expr)
	walk = func(e mwpast.Expr) {
		switch n := e.(type) {
		case nil:
		case *mwpast.Var:
			if !isWritten[n.Name] && !seen[n.Name] {
				seen[n.Name] = true
				candidates = append(candidates, n.Name)
			}
		case *mwpast.BinOp:
			walk(n.LHS)
			walk(n.RHS)
		case *mwpast.UnOp:
			walk(n.Arg)
		}
	}
	walk(cond)

	if len(candidates) != 1 {
		return "", false
	}

	return candidates[0], true
}

// varOperand classifies an expression operand of a BinOp assignment
// (spec §4.7): it is either a bare Var (contributing a source row) or a
// Const, treated as a literal with no source row. Anything else — nested
// expressions (another BinOp, a Call, …) — is reported via ok=false so the
// caller can apply the unsupported-construct policy instead of silently
// mis-modeling a compound expression as a constant.
func varOperand(e mwpast.Expr) (name string, isVar bool, ok bool) {
	switch n := e.(type) {
	case *mwpast.Var:
		return n.Name, true, true
	case *mwpast.Const:
		return "", false, true
	default:
		return "", false, false
	}
}
