// Package monomial implements the (coefficient, delta-sequence) pair that
// is the atomic term of a Polynomial (spec §4.2).
//
// A Monomial's coefficient applies exactly when every delta in its sequence
// holds simultaneously; an empty sequence means the coefficient always
// applies. Monomials are immutable values; New is the sole constructor and
// performs the ordering/contradiction checks spec §4.2 requires.
package monomial

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/katalvlaran/mwpflow/internal/scalar"
)

// Monomial is an immutable (coefficient, delta-sequence) pair.
type Monomial struct {
	Coeff  scalar.Scalar
	Deltas delta.Sequence
}

// New builds a Monomial from a coefficient and an arbitrary delta list.
//
// Stage 1 (Validate): the list is sorted by index if it isn't already,
// since callers build sequences incrementally during analysis and strict
// ordering is an invariant we enforce here rather than at every call site.
// Stage 2 (Detect): a contradiction (two deltas sharing an index with
// different values) collapses the coefficient to scalar.Zero.
// Stage 3 (Finalize): return the canonical Monomial.
//
// Complexity: O(k²) for a sequence of length k (insertion sort).
func New(coeff scalar.Scalar, deltas delta.Sequence) Monomial {
	ordered := sortedCopy(deltas)
	if ordered.HasContradiction() {
		return Monomial{Coeff: scalar.Zero, Deltas: nil}
	}
	if coeff == scalar.Zero {
		return Monomial{Coeff: scalar.Zero, Deltas: nil}
	}

	return Monomial{Coeff: coeff, Deltas: ordered}
}

// sortedCopy returns a defensive, index-sorted copy of d (insertion sort:
// delta sequences are short — typically under a dozen entries — so this
// avoids pulling in sort.Slice's interface overhead for the hot path).
func sortedCopy(d delta.Sequence) delta.Sequence {
	out := make(delta.Sequence, len(d))
	copy(out, d)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Index > out[j].Index; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}

	return out
}

// IsZero reports whether m is the zero monomial (discarded by Polynomial
// normalization per spec §4.3).
func (m Monomial) IsZero() bool {
	return m.Coeff == scalar.Zero
}

// Equal is structural, order-sensitive equality on the canonical delta
// sequence, per spec §4.2.
func (m Monomial) Equal(other Monomial) bool {
	return m.Coeff == other.Coeff && m.Deltas.Equal(other.Deltas)
}

// Contains reports whether d appears in m's delta sequence.
func (m Monomial) Contains(d delta.Delta) bool {
	return m.Deltas.Contains(d)
}

// Mul multiplies two monomials: scalar-multiply the coefficients and merge
// the delta sequences; a merge conflict (same index, different value)
// yields the zero monomial, as does either factor already being zero.
// Complexity: O(k1+k2) for the merge of sequences of length k1, k2.
func Mul(a, b Monomial) Monomial {
	if a.IsZero() || b.IsZero() {
		return Monomial{Coeff: scalar.Zero}
	}
	merged, ok := delta.Merge(a.Deltas, b.Deltas)
	if !ok {
		return Monomial{Coeff: scalar.Zero}
	}

	return New(scalar.Mul(a.Coeff, b.Coeff), merged)
}

// Satisfied reports whether every delta in m's sequence is consistent with
// the given choice vector: for each delta (v,j) in m, position j of vector
// must contain v among its allowed values. Used by Polynomial.Eval and by
// the bound extractor (spec §4.9) to decide which monomials survive a
// witness choice.
func (m Monomial) Satisfied(vector delta.Vector) bool {
	for _, d := range m.Deltas {
		if !vector.Allows(d.Index, d.Value) {
			return false
		}
	}

	return true
}

// String renders "coeff*(v,j)(v,j)…" for debugging.
func (m Monomial) String() string {
	if len(m.Deltas) == 0 {
		return m.Coeff.String()
	}
	parts := make([]string, len(m.Deltas))
	for i, d := range m.Deltas {
		parts[i] = d.String()
	}

	return fmt.Sprintf("%s*%s", m.Coeff, strings.Join(parts, ""))
}
