package choice

import "github.com/katalvlaran/mwpflow/internal/delta"

// simplifyFailures iterates spec §4.8 stage 1's rules to a fixed point:
//
//	(a) collapse groups of sequences that share an identical tail and whose
//	    stripped head covers all domain.Domain values at one index into the
//	    common tail (that index can never help, so it is dropped);
//	(b) discard any sequence that is a superset of another in the set
//	    (the subset already forces failure on any derivation that would
//	     also satisfy the superset).
//
// Rule (c) of spec §4.8 — reducing a sequence once cross-sequence
// reasoning shows all domain values are eliminated at some index — is not
// implemented as a separate pass: stage 2's exhaustive, pruned search
// already reaches the same "no surviving vector" conclusion in that case,
// just via brute force rather than an upfront algebraic shortcut; see
// DESIGN.md for the grounding of this simplification.
func simplifyFailures(seqs []delta.Sequence) []delta.Sequence {
	current := dedupe(seqs)
	for {
		next, changed := removeSubsumed(current)
		next, changedHeads := collapseFullDomainHeads(next)
		if !changed && !changedHeads {
			return next
		}
		current = next
	}
}

// dedupe removes structurally identical sequences, order-preserving on
// first occurrence.
func dedupe(seqs []delta.Sequence) []delta.Sequence {
	out := make([]delta.Sequence, 0, len(seqs))
	for _, s := range seqs {
		dup := false
		for _, existing := range out {
			if existing.Equal(s) {
				dup = true

				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}

	return out
}

// isSubsetSeq reports whether every delta of a also appears in b (as an
// unordered set membership test; both sequences are already index-sorted
// but subset testing does not depend on that order).
func isSubsetSeq(a, b delta.Sequence) bool {
	for _, d := range a {
		if !b.Contains(d) {
			return false
		}
	}

	return true
}

// removeSubsumed drops any sequence that is a strict superset of another
// member (spec §4.8 stage 1 rule (b)).
func removeSubsumed(seqs []delta.Sequence) ([]delta.Sequence, bool) {
	drop := make([]bool, len(seqs))
	changed := false
	for i := range seqs {
		if drop[i] {
			continue
		}
		for j := range seqs {
			if i == j || drop[j] {
				continue
			}
			if len(seqs[i]) < len(seqs[j]) && isSubsetSeq(seqs[i], seqs[j]) {
				drop[j] = true
				changed = true
			}
		}
	}

	out := make([]delta.Sequence, 0, len(seqs))
	for i, s := range seqs {
		if !drop[i] {
			out = append(out, s)
		}
	}

	return out, changed
}

// headTailKey groups sequences by (head index, tail shape) so that
// full-domain collapsing can find groups sharing an identical remainder.
type headTailKey struct {
	headIndex int
	tailKey   string
}

// collapseFullDomainHeads implements spec §4.8 stage 1 rule (a): whenever
// all delta.Domain values appear as the first (smallest-index) delta of
// otherwise-identical sequences, the set is replaced by the single common
// tail, since no choice at that index can avoid failure once the tail also
// holds.
func collapseFullDomainHeads(seqs []delta.Sequence) ([]delta.Sequence, bool) {
	groups := make(map[headTailKey][]int)
	for i, s := range seqs {
		if len(s) == 0 {
			continue // already unconditional; nothing to strip
		}
		head := s[0]
		tail := s[1:]
		key := headTailKey{headIndex: head.Index, tailKey: seqKey(tail)}
		groups[key] = append(groups[key], i)
	}

	drop := make(map[int]bool)
	var additions []delta.Sequence
	changed := false
	for key, idxs := range groups {
		if len(idxs) < delta.Domain {
			continue
		}
		values := make(map[int]bool, delta.Domain)
		for _, i := range idxs {
			values[seqs[i][0].Value] = true
		}
		if len(values) < delta.Domain {
			continue // same head index but not a full-domain partition
		}
		// Full domain covered at key.headIndex with an identical tail:
		// collapse every member to the shared tail.
		tail := seqs[idxs[0]][1:]
		additions = append(additions, append(delta.Sequence(nil), tail...))
		for _, i := range idxs {
			drop[i] = true
		}
		changed = true
	}

	if !changed {
		return seqs, false
	}

	out := make([]delta.Sequence, 0, len(seqs))
	for i, s := range seqs {
		if !drop[i] {
			out = append(out, s)
		}
	}
	out = append(out, additions...)

	return dedupe(out), true
}

// seqKey mirrors polynomial's map-key helper locally to avoid an import
// cycle (polynomial -> delta, choice -> delta; choice must not depend on
// polynomial).
func seqKey(seq delta.Sequence) string {
	var b []byte
	for _, d := range seq {
		b = append(b, byte(d.Value), byte(d.Index), byte(d.Index>>8))
	}

	return string(b)
}
