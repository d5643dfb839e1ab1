// Package mwpresult defines the structured Result object returned by the
// analyzer for each analyzed function (spec §6), and its JSON-serializable
// on-disk form for the CLI's -o/--no_save persistence.
package mwpresult

import "time"

// Status classifies how analysis of a function concluded.
type Status int

const (
	// StatusBounded means a non-infinite derivation was found and Bounds is
	// populated.
	StatusBounded Status = iota
	// StatusInfinite means no derivation avoids every failure sequence;
	// ProblematicFlows is populated.
	StatusInfinite
	// StatusUnsupported means strict mode rejected the function because it
	// contains a construct the analyzer does not handle.
	StatusUnsupported
	// StatusError means analysis aborted on an internal-invariant violation
	// (spec §7) — a malformed polynomial, a fixpoint/search budget that
	// could not converge, or similar; Error carries the cause.
	StatusError
)

// String renders a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusBounded:
		return "bounded"
	case StatusInfinite:
		return "infinite"
	case StatusUnsupported:
		return "unsupported"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Warning records a skipped or otherwise noteworthy construct encountered
// during analysis (spec §7's unsupported-syntax policy).
type Warning struct {
	Reason string `json:"reason"`
}

// DeltaJSON is the serializable form of a single (value,index) pair.
type DeltaJSON [2]int

// MonomialJSON is the serializable form of one Monomial: its scalar symbol
// and the delta sequence gating it (spec §6).
type MonomialJSON struct {
	Scalar string      `json:"scalar"`
	Deltas []DeltaJSON `json:"deltas"`
}

// PolynomialJSON is a serializable polynomial: a list of monomials.
type PolynomialJSON []MonomialJSON

// MatrixJSON is the serializable final matrix: nested arrays of
// polynomials indexed [row][col] over Vars.
type MatrixJSON [][]PolynomialJSON

// Bound is the extracted symbolic mwp-bound for one output variable:
// x′ ≤ max(MaxVars, WeakVars) + PolyVars, with empty slots elided at
// rendering time.
//
// WeakVars and PolyVars are each a sum of monomials, not a flat variable
// list: every inner slice is one monomial's factors, rendered joined by
// "*", and the outer slices are joined by "+". A source lands in the same
// monomial as another source only when one is itself a p/w-dependency of
// the other (it was carried into the bound through that other variable's
// own growth, not introduced as an independent sibling term); independent
// sources get their own singleton monomial and so render additively.
// WeakVars holds the poly₁ argument nested inside max(...); PolyVars holds
// the poly₂ term added after it.
type Bound struct {
	Var      string     `json:"var"`
	MaxVars  []string   `json:"max_vars,omitempty"`
	WeakVars [][]string `json:"weak_vars,omitempty"`
	PolyVars [][]string `json:"poly_vars,omitempty"`
}

// Result is the per-function analysis outcome (spec §6).
type Result struct {
	FunctionName string `json:"function_name"`
	Vars         []string `json:"vars"`

	Status Status `json:"status"`

	Matrix MatrixJSON `json:"matrix,omitempty"`

	// ChoiceVectors is the compact disjunction of surviving choice vectors
	// (spec §4.8); each vector has length Index and each element lists the
	// permitted domain values at that program point.
	ChoiceVectors [][][]int `json:"choice_vectors,omitempty"`

	// ProblematicFlows maps source variable -> target variables whose
	// matrix cell holds ∞ under every surviving derivation (spec §7);
	// populated only when Status == StatusInfinite.
	ProblematicFlows map[string][]string `json:"problematic_flows,omitempty"`

	// Bounds holds one Bound per output variable, in Vars order; populated
	// only when Status == StatusBounded.
	Bounds []Bound `json:"bounds,omitempty"`

	// BoundString is Bounds rendered as spec §4.9's conjunction of
	// inequalities, ready for display.
	BoundString string `json:"bound_string,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`

	// Error carries the internal-invariant-violation message when
	// Status == StatusError (spec §7); unset otherwise.
	Error string `json:"error,omitempty"`

	Index int `json:"index"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Duration returns EndedAt.Sub(StartedAt); zero if either timestamp is
// unset.
func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}

	return r.EndedAt.Sub(r.StartedAt)
}

// ProgramResult aggregates one Result per analyzed function. It has no
// field for a parse-level failure; such a failure leaves no ProgramResult.
type ProgramResult struct {
	Functions []Result `json:"functions"`
}
