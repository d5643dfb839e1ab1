// Package bound implements the bound extractor (spec §4.9): given a
// non-infinite relation and a witness choice vector, it produces the
// symbolic mwp-bound for every variable.
package bound

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/katalvlaran/mwpflow/internal/relation"
	"github.com/katalvlaran/mwpflow/internal/scalar"
	"github.com/katalvlaran/mwpflow/mwpresult"
)

// ErrInfiniteWitness indicates the supplied witness choice vector still
// satisfies a monomial carrying scalar.Infinite — an invalid witness, since
// the choice simplifier guarantees every surviving vector avoids every
// infinite flow (spec §4.9: "∞ must not occur").
var ErrInfiniteWitness = errors.New("bound: witness choice vector does not avoid an infinite flow")

func boundErrorf(op string, err error) error {
	return fmt.Errorf("bound.%s: %w", op, err)
}

// rawDeps is one target variable's unGrouped, per-grade source list, the
// intermediate the two-pass Extract build keeps around so a later variable's
// grouping step can ask "is X itself a dependency of Y" without recomputing
// the cell scan.
type rawDeps struct {
	maxVars  []string
	weakSrcs []string
	polySrcs []string
}

// Extract computes one mwpresult.Bound per variable of rel, restricted to
// the monomials the given witness choice vector satisfies (spec §4.9).
//
// Pass 1 classifies every column's surviving sources by grade (m/w/p), the
// same scan the single-pass extractor always did. Pass 2 turns the w/p
// source lists into the sum-of-products groups mwpresult.Bound now expects:
// a source that is itself already a p/w-dependency of another source
// contributing to the same target was carried into the bound through that
// other variable's own growth, not introduced as an independent sibling
// term, so it is folded into that source's monomial (multiplied) rather
// than listed as its own additive term. Two sources neither of which
// depends on the other are unrelated contributions and stay in separate,
// additive, singleton monomials.
//
// Complexity: O(n^2 * k) for pass 1 (n variables, an average of k monomials
// per cell) plus O(n * s^2) for pass 2's pairwise grouping over s sources
// per target.
func Extract(rel relation.Relation, witness delta.Vector) ([]mwpresult.Bound, error) {
	n := len(rel.Vars)
	raws := make([]rawDeps, n)

	for target := 0; target < n; target++ {
		var r rawDeps
		for source := 0; source < n; source++ {
			poly, err := rel.Matrix.At(source, target)
			if err != nil {
				return nil, boundErrorf("Extract", err)
			}
			for _, m := range poly.Terms() {
				if !m.Satisfied(witness) {
					continue
				}
				switch m.Coeff {
				case scalar.Zero:
					// no contribution
				case scalar.M:
					r.maxVars = appendUnique(r.maxVars, rel.Vars[source])
				case scalar.W:
					r.weakSrcs = appendUnique(r.weakSrcs, rel.Vars[source])
				case scalar.P:
					r.polySrcs = appendUnique(r.polySrcs, rel.Vars[source])
				case scalar.Infinite:
					return nil, boundErrorf("Extract", ErrInfiniteWitness)
				}
			}
		}
		sort.Strings(r.maxVars)
		sort.Strings(r.weakSrcs)
		sort.Strings(r.polySrcs)
		raws[target] = r
	}

	varIndex := make(map[string]int, n)
	for i, v := range rel.Vars {
		varIndex[v] = i
	}

	bounds := make([]mwpresult.Bound, 0, n)
	for target := 0; target < n; target++ {
		r := raws[target]
		bounds = append(bounds, mwpresult.Bound{
			Var:      rel.Vars[target],
			MaxVars:  r.maxVars,
			WeakVars: groupByAbsorption(r.weakSrcs, raws, varIndex),
			PolyVars: groupByAbsorption(r.polySrcs, raws, varIndex),
		})
	}

	return bounds, nil
}

// groupByAbsorption partitions srcs into sum-of-products monomials: source s
// is absorbed into source head if head also contributes to srcs's target and
// s is itself one of head's own (w or p) sources, i.e. s only reaches the
// target by first flowing through head. A source absorbed by no one stays
// in its own singleton monomial.
func groupByAbsorption(srcs []string, raws []rawDeps, varIndex map[string]int) [][]string {
	if len(srcs) == 0 {
		return nil
	}

	head := make(map[string]string, len(srcs))
	for _, s := range srcs {
		head[s] = s
	}
	for _, s := range srcs {
		for _, candidate := range srcs {
			if candidate == s {
				continue
			}
			other := raws[varIndex[candidate]]
			if containsVar(other.polySrcs, s) || containsVar(other.weakSrcs, s) {
				head[s] = candidate
				break
			}
		}
	}

	members := make(map[string][]string)
	var heads []string
	for _, s := range srcs {
		h := head[s]
		if _, seen := members[h]; !seen {
			heads = append(heads, h)
		}
		members[h] = append(members[h], s)
	}
	sort.Strings(heads)

	groups := make([][]string, 0, len(heads))
	for _, h := range heads {
		g := members[h]
		sort.Strings(g)
		groups = append(groups, g)
	}

	return groups
}

// containsVar reports whether name appears in list.
func containsVar(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}

	return false
}

// appendUnique appends v to list unless it is already present.
func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}

	return append(list, v)
}

// Render produces the canonical inequality string for a single Bound,
// applying spec §4.9's simplifications: drop max(...) when its argument is
// a single variable and poly₁ is empty, and drop a "+poly₂" term when
// poly₂ is empty.
func Render(b mwpresult.Bound) string {
	maxPart := renderMax(b.MaxVars, b.WeakVars)
	polyPart := renderGroups(b.PolyVars)

	switch {
	case maxPart == "" && polyPart == "":
		return fmt.Sprintf("%s' <= 0", b.Var)
	case maxPart == "":
		return fmt.Sprintf("%s' <= %s", b.Var, polyPart)
	case polyPart == "":
		return fmt.Sprintf("%s' <= %s", b.Var, maxPart)
	default:
		return fmt.Sprintf("%s' <= %s+%s", b.Var, maxPart, polyPart)
	}
}

// renderMax renders max(vars, poly₁(vars)): poly₁ (from w-grade groups) is
// a second, comma-separated argument when non-empty; a lone plain variable
// with no poly₁ skips the max(...) wrapper entirely.
func renderMax(maxVars []string, weakGroups [][]string) string {
	poly1 := renderGroups(weakGroups)
	switch {
	case len(maxVars) == 0 && poly1 == "":
		return ""
	case len(maxVars) == 0:
		return poly1
	case poly1 == "" && len(maxVars) == 1:
		return maxVars[0]
	case poly1 == "":
		return fmt.Sprintf("max(%s)", strings.Join(maxVars, ","))
	default:
		return fmt.Sprintf("max(%s,%s)", strings.Join(maxVars, ","), poly1)
	}
}

// renderGroups joins each monomial's factors with "*" and the monomials
// themselves with "+" — the sum-of-products rendering shared by poly₁ and
// poly₂.
func renderGroups(groups [][]string) string {
	if len(groups) == 0 {
		return ""
	}
	terms := make([]string, len(groups))
	for i, g := range groups {
		terms[i] = strings.Join(g, "*")
	}

	return strings.Join(terms, "+")
}

// RenderAll joins every variable's rendered inequality with " && ", the
// conjunction spec §4.9 calls "the program's bound".
func RenderAll(bounds []mwpresult.Bound) string {
	parts := make([]string, len(bounds))
	for i, b := range bounds {
		parts[i] = Render(b)
	}

	return strings.Join(parts, " && ")
}
