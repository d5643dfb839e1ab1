// Simplify implements the two-stage choice-simplification algorithm of
// spec §4.8. Stage 1 reduces the failure-sequence set to a fixed point
// under subsumption and full-domain collapsing; stage 2 performs a
// deterministic depth-first search over the Cartesian product of the
// (simplified) failure sequences, pruning branches as soon as a vector
// position is exhausted and discarding subsumed vectors on the fly —
// mirroring the teacher pack's branch-and-bound engine shape (an explicit
// engine struct holding search state, deterministic branch order, and
// early pruning) adapted from numeric lower-bound pruning to delta-set
// subsumption pruning.
package choice

import (
	"errors"

	"github.com/katalvlaran/mwpflow/internal/delta"
)

// ErrSearchBudgetExceeded indicates the stage-2 DFS exceeded its node
// budget without exhausting the search — a diagnostic guard against the
// worst-case exponential blowup spec §4.8 warns about, analogous to
// pmatrix.Fixpoint's iteration cap.
var ErrSearchBudgetExceeded = errors.New("choice: search budget exceeded before the cartesian product was exhausted")

// DefaultNodeBudget bounds the stage-2 search tree; Simplify uses it
// whenever the caller passes a budget of 0 or less.
const DefaultNodeBudget = 2_000_000

// Result is the output of Simplify: either the program is Infinite (no
// choice vector survives), or Vectors holds the maximal, pairwise
// incomparable disjunction of surviving choice vectors.
type Result struct {
	Infinite bool
	Vectors  []Vector
}

// Simplify runs the full spec §4.8 algorithm.
//
//   - index == 0: empty vector list by convention (spec §4.8).
//   - failures empty: single all-domain vector (spec §4.8's "Empty S").
//   - otherwise: stage 1 simplifies failures, stage 2 builds the
//     disjunction; an empty stage-2 result means Infinite.
//
// nodeBudget bounds stage 2's search tree; pass 0 (or DefaultNodeBudget)
// for the package default.
func Simplify(index int, failures []delta.Sequence, nodeBudget int) (Result, error) {
	if index == 0 {
		return Result{Infinite: false, Vectors: nil}, nil
	}
	if len(failures) == 0 {
		return Result{Infinite: false, Vectors: []Vector{FullVector(index)}}, nil
	}
	if nodeBudget <= 0 {
		nodeBudget = DefaultNodeBudget
	}

	simplified := simplifyFailures(failures)

	eng := &searchEngine{
		index:  index,
		seqs:   simplified,
		budget: nodeBudget,
	}
	if err := eng.run(); err != nil {
		return Result{}, err
	}

	if len(eng.vectors) == 0 {
		return Result{Infinite: true}, nil
	}
	sortVectors(eng.vectors)

	return Result{Infinite: false, Vectors: eng.vectors}, nil
}

// searchEngine holds all stage-2 DFS state; kept as a dedicated struct
// (rather than closures over local variables) to keep the recursion's
// dependencies explicit and the accumulated state easy to inspect from
// tests, in the teacher pack's bbEngine idiom.
type searchEngine struct {
	index   int
	seqs    []delta.Sequence
	budget  int
	nodes   int
	vectors []Vector
}

// run launches the depth-first branch over the cartesian product of the
// (already stage-1-simplified) failure sequences.
func (e *searchEngine) run() error {
	return e.descend(0, FullVector(e.index))
}

// descend explores sequence i of e.seqs, having already committed to a
// partial vector reflecting the choices made for sequences [0,i).
//
// For sequence i, every one of its constituent deltas is tried in turn as
// the "broken" delta that prevents that sequence's failure combination
// from being reachable; a branch that empties a vector position is pruned
// immediately rather than explored further.
func (e *searchEngine) descend(i int, vec Vector) error {
	e.nodes++
	if e.budget > 0 && e.nodes > e.budget {
		return ErrSearchBudgetExceeded
	}

	if i == len(e.seqs) {
		e.vectors = addWithoutSubsumption(e.vectors, vec)

		return nil
	}

	// A failure sequence with no deltas left (already unconditional after
	// stage-1 reduction) can never be broken: this branch of the product
	// dies entirely, which is exactly the desired "no derivation survives
	// here" behavior rather than a special case.
	for _, d := range e.seqs[i] {
		next := vec.Clone()
		if !next.Remove(d) {
			continue // position exhausted: prune
		}
		if err := e.descend(i+1, next); err != nil {
			return err
		}
	}

	return nil
}
