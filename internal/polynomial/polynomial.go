// Package polynomial implements the normalized sum-of-monomials value used
// throughout the analyzer's matrix cells (spec §4.3).
//
// A Polynomial's normal form guarantees: no two monomials share a delta
// sequence (coefficients merged by scalar addition), no zero-coefficient
// monomial survives, and monomials are kept in a stable, deterministic
// order. The empty polynomial denotes 0.
package polynomial

import (
	"sort"
	"strings"

	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/katalvlaran/mwpflow/internal/monomial"
	"github.com/katalvlaran/mwpflow/internal/scalar"
)

// Polynomial is an immutable, normalized list of monomials.
type Polynomial struct {
	terms []monomial.Monomial
}

// Zero is the empty polynomial, the additive identity and multiplicative
// absorber.
var Zero = Polynomial{}

// New builds a normalized Polynomial from an arbitrary monomial list.
//
// Stage 1 (Merge): monomials sharing a delta sequence are combined via
// scalar.Add on their coefficients.
// Stage 2 (Filter): zero-coefficient monomials are dropped.
// Stage 3 (Order): the remaining monomials are sorted by delta.Compare for
// a stable, reproducible representation.
//
// Complexity: O(k log k) for k input monomials (dominated by the sort;
// merging is a linear scan over a map keyed by delta-sequence shape).
func New(terms ...monomial.Monomial) Polynomial {
	merged := make(map[string]monomial.Monomial, len(terms))
	order := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.IsZero() {
			continue
		}
		key := seqKey(t.Deltas)
		if existing, ok := merged[key]; ok {
			combined := monomial.New(scalar.Add(existing.Coeff, t.Coeff), t.Deltas)
			merged[key] = combined
		} else {
			merged[key] = t
			order = append(order, key)
		}
	}

	out := make([]monomial.Monomial, 0, len(order))
	for _, k := range order {
		if m := merged[k]; !m.IsZero() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return delta.Compare(out[i].Deltas, out[j].Deltas) < 0
	})

	return Polynomial{terms: out}
}

// seqKey gives a map key uniquely identifying a delta sequence's shape.
func seqKey(seq delta.Sequence) string {
	var sb strings.Builder
	for _, d := range seq {
		sb.WriteString(d.String())
	}

	return sb.String()
}

// Terms exposes the normalized monomial list (read-only use expected; the
// slice is owned by this Polynomial value and must not be mutated).
func (p Polynomial) Terms() []monomial.Monomial {
	return p.terms
}

// IsZero reports whether p is the empty (zero) polynomial.
func (p Polynomial) IsZero() bool {
	return len(p.terms) == 0
}

// Single returns the scalar coefficient of the degree-0 (empty delta
// sequence) term if p has at most that single term, used when a cell is
// known to carry no delta-conditioned part.
func (p Polynomial) Single() (scalar.Scalar, bool) {
	if len(p.terms) == 0 {
		return scalar.Zero, true
	}
	if len(p.terms) == 1 && len(p.terms[0].Deltas) == 0 {
		return p.terms[0].Coeff, true
	}

	return scalar.Zero, false
}

// FromScalar builds a constant polynomial (empty delta sequence).
func FromScalar(s scalar.Scalar) Polynomial {
	if s == scalar.Zero {
		return Zero
	}

	return New(monomial.New(s, nil))
}

// Add returns the normalized sum p+q (spec §4.3): concatenate both term
// lists and renormalize.
// Complexity: O((k1+k2) log(k1+k2)).
func Add(p, q Polynomial) Polynomial {
	combined := make([]monomial.Monomial, 0, len(p.terms)+len(q.terms))
	combined = append(combined, p.terms...)
	combined = append(combined, q.terms...)

	return New(combined...)
}

// Mul returns the normalized product p*q: the cross product of monomials
// under monomial.Mul, renormalized.
// Complexity: O(k1*k2 log(k1*k2)).
func Mul(p, q Polynomial) Polynomial {
	if p.IsZero() || q.IsZero() {
		return Zero
	}
	combined := make([]monomial.Monomial, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			prod := monomial.Mul(a, b)
			if !prod.IsZero() {
				combined = append(combined, prod)
			}
		}
	}

	return New(combined...)
}

// Equal reports normal-form equality: same terms in the same order, since
// New guarantees a canonical ordering for any set of input monomials.
func (p Polynomial) Equal(q Polynomial) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for i := range p.terms {
		if !p.terms[i].Equal(q.terms[i]) {
			return false
		}
	}

	return true
}

// Eval substitutes a choice vector into p, returning the scalar sum of the
// coefficients of every monomial whose delta sequence the vector satisfies
// (spec §4.3's eval operation). Neither internal/bound nor internal/choice
// calls it; both inspect monomials one by one.
// vector[j] gives, for program point j, which of the 3 domain values remain
// allowed; an empty/all-false slot means nothing survives there.
func (p Polynomial) Eval(vector delta.Vector) scalar.Scalar {
	acc := scalar.Zero
	for _, t := range p.terms {
		if t.Satisfied(vector) {
			acc = scalar.Add(acc, t.Coeff)
		}
	}

	return acc
}

// FailureSequences returns the delta sequence of every monomial whose
// coefficient is scalar.Infinite — the raw material the choice simplifier
// (spec §4.8) consumes as the failure-sequence set for a single matrix cell.
func (p Polynomial) FailureSequences() []delta.Sequence {
	var out []delta.Sequence
	for _, t := range p.terms {
		if t.Coeff == scalar.Infinite {
			out = append(out, t.Deltas)
		}
	}

	return out
}

// String renders "t1 + t2 + …" for debugging; the zero polynomial renders
// as "0".
func (p Polynomial) String() string {
	if p.IsZero() {
		return "0"
	}
	parts := make([]string, len(p.terms))
	for i, t := range p.terms {
		parts[i] = t.String()
	}

	return strings.Join(parts, " + ")
}
