// Package levenshtein builds parametric Levenshtein (and, with
// transpositions enabled, Damerau-Levenshtein) automaton descriptions and
// instantiates them against concrete target words, plus an on-line
// bounded edit-distance simulation that never materializes a DFA at all.
//
// The construction follows the universal-Levenshtein-automaton approach
// (Mihov & Schulz): a "position" tracks how far into the pattern a path
// has advanced and how many errors it has spent getting there; a
// "parametric state" is a subsumption-reduced, offset-normalized set of
// positions, so the whole table depends only on (max_distance,
// with_transpositions), never on the pattern's actual characters.
package levenshtein

// position tracks one alignment path through the pattern: how far it has
// advanced (offset), how many edits it has spent (distance), and whether
// it just resolved a transposition.
type position struct {
	offset    int
	distance  int
	transpose bool
}

func less(a, b position) bool {
	if a.offset != b.offset {
		return a.offset < b.offset
	}
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return !a.transpose && b.transpose
}

// subsumes reports whether p dominates q: any path q could continue is no
// better than a path p could continue, so q is redundant once p is kept.
//
//	p subsumes q iff |Δoffset| + p.distance ≤ q.distance − (q.transpose ∧ ¬p.transpose)
func (p position) subsumes(q position, withTranspositions bool) bool {
	diff := p.offset - q.offset
	if diff < 0 {
		diff = -diff
	}
	bonus := 0
	if withTranspositions && q.transpose && !p.transpose {
		bonus = 1
	}
	return diff+p.distance <= q.distance-bonus
}

// reduceAndNormalize shifts positions so the minimum offset is zero,
// drops every position subsumed by another, and sorts the survivors
// lexicographically — description construction step 3.
func reduceAndNormalize(positions []position, withTranspositions bool) ([]position, int) {
	if len(positions) == 0 {
		return nil, 0
	}
	shift := positions[0].offset
	for _, p := range positions[1:] {
		if p.offset < shift {
			shift = p.offset
		}
	}
	shifted := make([]position, len(positions))
	for i, p := range positions {
		shifted[i] = position{offset: p.offset - shift, distance: p.distance, transpose: p.transpose}
	}
	sortPositions(shifted, func(a, b position) bool {
		return a.distance != b.distance && a.distance < b.distance || (a.distance == b.distance && a.offset < b.offset)
	})

	var kept []position
	for _, q := range shifted {
		dominated := false
		for _, k := range kept {
			if k == q {
				dominated = true
				break
			}
			if k.subsumes(q, withTranspositions) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, q)
		}
	}
	sortPositions(kept, less)
	return kept, shift
}

func sortPositions(p []position, lessFn func(a, b position) bool) {
	for i := 1; i < len(p); i++ {
		for j := i; j > 0 && lessFn(p[j], p[j-1]); j-- {
			p[j], p[j-1] = p[j-1], p[j]
		}
	}
}
