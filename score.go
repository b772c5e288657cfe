package iresearch

// collectScores gathers the non-nil ScoreFunc from each of children's
// attribute bags, in order.
func collectScores(children []DocIterator) []ScoreFunc {
	var scores []ScoreFunc
	for _, c := range children {
		if v, ok := c.Attribute(AttrScore); ok {
			if sf, ok := v.(ScoreFunc); ok && sf != nil {
				scores = append(scores, sf)
			}
		}
	}
	return scores
}

// mergeScores builds a single ScoreFunc that sums (or otherwise combines,
// via merger) the given children's individual scores. Returns nil if none
// of the children score at all — matching the original's collapse of a
// composite iterator's own score attribute to absent when no child
// contributes one.
func mergeScores(scores []ScoreFunc, merger Merger) ScoreFunc {
	switch len(scores) {
	case 0:
		return nil
	case 1:
		return scores[0]
	default:
		return func() float64 {
			acc := scores[0]()
			for _, s := range scores[1:] {
				acc = merger.Merge(acc, s())
			}
			return acc
		}
	}
}
