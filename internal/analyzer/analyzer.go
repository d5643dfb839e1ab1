package analyzer

import (
	"errors"
	"time"

	"github.com/katalvlaran/mwpflow/config"
	"github.com/katalvlaran/mwpflow/internal/bound"
	"github.com/katalvlaran/mwpflow/internal/choice"
	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/katalvlaran/mwpflow/internal/relation"
	"github.com/katalvlaran/mwpflow/mwpast"
	"github.com/katalvlaran/mwpflow/mwpresult"
)

// initialVars returns fn's parameters, in order, deduplicated — the
// starting variable set of spec §4.7 step 1. Variables introduced by a Decl
// encountered mid-traversal are registered lazily via relation.AddVar.
func initialVars(fn *mwpast.Function) []string {
	seen := make(map[string]bool, len(fn.Params))
	out := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	return out
}

// AnalyzeFunction runs the full spec §4.7–§4.9 pipeline over a single
// function: traverse the body building a Relation, extract the matrix's
// failure sequences, simplify them to a choice-vector disjunction
// (spec §4.8), and — from one concrete witness picked out of the first
// surviving vector — extract a symbolic bound (spec §4.9). Analysis
// failures are attached to the returned Result (spec §7's propagation
// policy); AnalyzeFunction has no error return.
func AnalyzeFunction(fn *mwpast.Function, cfg config.Config) mwpresult.Result {
	started := time.Now()
	res := mwpresult.Result{FunctionName: fn.Name}
	c := newCtx(cfg)

	vars := initialVars(fn)
	rel, err := relation.Identity(vars)
	if err != nil {
		return finalizeError(res, started, err)
	}

	rel, err = walkStmt(c, rel, fn.Body)
	if err != nil {
		var strictErr *errUnsupportedStrict
		if errors.As(err, &strictErr) {
			res.Status = mwpresult.StatusUnsupported
			res.Vars = rel.Vars
			res.Warnings = c.warnings
			res.Index = c.choiceIndex
			res.StartedAt, res.EndedAt = started, time.Now()

			return res
		}

		return finalizeError(res, started, err)
	}

	res.Vars = rel.Vars
	res.Warnings = c.warnings
	res.Index = c.choiceIndex

	failures := collectFailures(rel)

	// Index 0 with at least one ∞ flow has no choice that could ever
	// remove it: Infinite without running the simplifier at all.
	if c.choiceIndex == 0 && len(failures) > 0 {
		res.Status = mwpresult.StatusInfinite
		res.ProblematicFlows = problematicFlows(rel, nil)
		if !cfg.EarlyExit {
			res.Matrix = encodeMatrix(rel)
		}
		res.StartedAt, res.EndedAt = started, time.Now()

		return res
	}

	budget := cfg.ChoiceSearchBudget
	simplified, err := choice.Simplify(c.choiceIndex, failures, budget)
	if err != nil {
		return finalizeError(res, started, err)
	}

	res.ChoiceVectors = encodeVectors(simplified.Vectors)

	if simplified.Infinite {
		res.Status = mwpresult.StatusInfinite
		res.ProblematicFlows = problematicFlows(rel, nil)
		// cfg.EarlyExit (disabled by the CLI's --fin flag) controls whether
		// the full matrix — potentially carrying hundreds of monomials per
		// cell (spec §5) — is still serialized once Infinite is known.
		if !cfg.EarlyExit {
			res.Matrix = encodeMatrix(rel)
		}
		res.StartedAt, res.EndedAt = started, time.Now()

		return res
	}

	witness := choice.FullVector(c.choiceIndex)
	if len(simplified.Vectors) > 0 {
		witness = simplified.Vectors[0]
	}
	bounds, err := bound.Extract(rel, witness.Pick())
	if err != nil {
		return finalizeError(res, started, err)
	}

	res.Status = mwpresult.StatusBounded
	res.Bounds = bounds
	res.BoundString = bound.RenderAll(bounds)
	res.Matrix = encodeMatrix(rel)
	res.StartedAt, res.EndedAt = started, time.Now()

	return res
}

// AnalyzeProgram runs AnalyzeFunction over every function of prog,
// independently (spec §5: callers may parallelize across functions because
// each gets its own context and immutable values, though this sequential
// driver does not itself do so).
func AnalyzeProgram(prog *mwpast.Program, cfg config.Config) mwpresult.ProgramResult {
	out := mwpresult.ProgramResult{Functions: make([]mwpresult.Result, 0, len(prog.Functions))}
	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, AnalyzeFunction(fn, cfg))
	}

	return out
}

func finalizeError(res mwpresult.Result, started time.Time, err error) mwpresult.Result {
	res.Status = mwpresult.StatusError
	res.Error = err.Error()
	res.StartedAt, res.EndedAt = started, time.Now()

	return res
}

// collectFailures gathers every delta sequence labeled ∞ across the whole
// matrix (spec §4.8's input set S).
func collectFailures(rel relation.Relation) []delta.Sequence {
	var out []delta.Sequence
	n := len(rel.Vars)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p, err := rel.Matrix.At(i, j)
			if err != nil {
				continue
			}
			out = append(out, p.FailureSequences()...)
		}
	}

	return out
}

// problematicFlows reports, for an Infinite verdict, every (source,target)
// pair whose cell carries an ∞ coefficient under every surviving
// derivation (spec §7). witness is the best surviving vector, if any; nil
// means no vector survives at all, so every ∞-carrying cell is reported
// regardless of delta sequence.
func problematicFlows(rel relation.Relation, witness delta.Vector) map[string][]string {
	out := make(map[string][]string)
	n := len(rel.Vars)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p, err := rel.Matrix.At(i, j)
			if err != nil {
				continue
			}
			flagged := false
			for _, seq := range p.FailureSequences() {
				if witness == nil || deltaSeqSatisfied(seq, witness) {
					flagged = true

					break
				}
			}
			if flagged {
				src, dst := rel.Vars[i], rel.Vars[j]
				out[src] = append(out[src], dst)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}

	return out
}

func deltaSeqSatisfied(seq delta.Sequence, vector delta.Vector) bool {
	for _, d := range seq {
		if !vector.Allows(d.Index, d.Value) {
			return false
		}
	}

	return true
}

// encodeVectors renders the internal choice.Vector disjunction into the
// Result's JSON-serializable form: for each vector, for each index, the
// sorted list of permitted domain values.
func encodeVectors(vecs []choice.Vector) [][][]int {
	if len(vecs) == 0 {
		return nil
	}
	out := make([][][]int, len(vecs))
	for i, v := range vecs {
		row := make([][]int, len(v))
		for j, allowed := range v {
			var vals []int
			for val := 0; val < delta.Domain; val++ {
				if allowed[val] {
					vals = append(vals, val)
				}
			}
			row[j] = vals
		}
		out[i] = row
	}

	return out
}

// encodeMatrix renders rel's matrix into the Result's JSON-serializable
// nested-array form (spec §6).
func encodeMatrix(rel relation.Relation) mwpresult.MatrixJSON {
	n := len(rel.Vars)
	out := make(mwpresult.MatrixJSON, n)
	for i := 0; i < n; i++ {
		out[i] = make([]mwpresult.PolynomialJSON, n)
		for j := 0; j < n; j++ {
			p, err := rel.Matrix.At(i, j)
			if err != nil {
				continue
			}
			terms := p.Terms()
			pj := make(mwpresult.PolynomialJSON, len(terms))
			for k, m := range terms {
				deltas := make([]mwpresult.DeltaJSON, len(m.Deltas))
				for d, dd := range m.Deltas {
					deltas[d] = mwpresult.DeltaJSON{dd.Value, dd.Index}
				}
				pj[k] = mwpresult.MonomialJSON{Scalar: m.Coeff.String(), Deltas: deltas}
			}
			out[i][j] = pj
		}
	}

	return out
}
