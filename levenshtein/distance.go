package levenshtein

// Distance computes the bounded edit distance between lhs and rhs by
// walking the parametric transition table one rhs character at a time;
// no per-word automaton is ever built. A transition landing on state 0
// (dead) short-circuits to max_distance+1, the same "reject" value a
// materialized automaton would report by failing to accept.
func (d *ParametricDescription) Distance(lhs, rhs []byte) int {
	pattern := []rune(string(lhs))
	dead := d.maxDistance + 1

	ps, off := 1, 0
	for _, r := range string(rhs) {
		chi := characteristicVector(pattern, off, d.window, r)
		tr := d.transitions[ps][chi]
		if tr.next == 0 {
			return dead
		}
		off += tr.shift
		ps = tr.next
	}
	return d.distanceAt(ps, len(pattern)-off)
}
