package choice

import (
	"sort"

	"github.com/katalvlaran/mwpflow/internal/delta"
)

// Vector is an alias for the shared choice-vector representation; kept as
// a local name so callers of this package read "choice.Vector" rather than
// reaching into the delta package for a type that conceptually belongs to
// the simplifier's public surface.
type Vector = delta.Vector

// FullVector returns the vector of length n with every domain value
// permitted at every index — the result for an empty failure-sequence set
// (spec §4.8's "Empty S" outcome).
func FullVector(n int) Vector {
	return delta.FullVector(n)
}

// addWithoutSubsumption inserts candidate into the accumulator unless it is
// subsumed by an existing member or subsumes (and so should replace)
// existing members — keeping only the maximal, pairwise-incomparable
// vectors of spec §4.8's final disjunction.
func addWithoutSubsumption(acc []Vector, candidate Vector) []Vector {
	kept := acc[:0]
	for _, existing := range acc {
		if candidate.SubsetOf(existing) {
			// candidate adds nothing; existing already covers it.
			return acc
		}
		if !existing.SubsetOf(candidate) {
			kept = append(kept, existing)
		}
		// else: existing is redundant given candidate; drop it by omission.
	}
	kept = append(kept, candidate)

	return kept
}

// sortVectors gives a deterministic, reproducible ordering over the final
// disjunction (lexicographic over the flattened bool matrix), matching the
// teacher pack's convention of fixed iteration/printing order for anything
// that feeds into a user-facing report.
func sortVectors(vs []Vector) {
	sort.Slice(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		for k := range a {
			if a[k] != b[k] {
				return lessTriple(a[k], b[k])
			}
		}

		return false
	})
}

func lessTriple(a, b [3]bool) bool {
	for k := 0; k < 3; k++ {
		if a[k] != b[k] {
			return !a[k] && b[k]
		}
	}

	return false
}
