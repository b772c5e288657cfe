package levenshtein

import (
	"fmt"
	"sort"
	"unicode/utf8"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

// StateID indexes a state of an instantiated Automaton.
type StateID int

// Arc is one labeled transition out of a state. Rho marks the default
// arc taken by any input symbol with no literal arc of its own — a
// single range-arc covering every character outside the target word's
// alphabet.
type Arc struct {
	Label rune
	Rho   bool
	To    StateID
}

// Automaton is a deterministic, input-label-sorted acceptor, unweighted
// except for final states' edit-distance weights.
type Automaton struct {
	start StateID
	arcs  [][]Arc
	final map[StateID]int
}

func (a *Automaton) Start() StateID { return a.start }

func (a *Automaton) Final(s StateID) (bool, int) {
	w, ok := a.final[s]
	return ok, w
}

func (a *Automaton) Transitions(s StateID) []Arc {
	return a.arcs[s]
}

func (a *Automaton) match(s StateID, r rune) (Arc, bool) {
	var rho Arc
	haveRho := false
	for _, arc := range a.arcs[s] {
		if arc.Rho {
			rho, haveRho = arc, true
			continue
		}
		if arc.Label == r {
			return arc, true
		}
	}
	if haveRho {
		return rho, true
	}
	return Arc{}, false
}

// Accepts walks word through the automaton and reports whether it lands
// on a final state, plus that state's edit-distance weight.
func (a *Automaton) Accepts(word []byte) (bool, int) {
	if !utf8.Valid(word) {
		return false, 0
	}
	cur := a.start
	for _, r := range string(word) {
		arc, ok := a.match(cur, r)
		if !ok {
			return false, 0
		}
		cur = arc.To
	}
	return a.Final(cur)
}

// BuildAutomaton instantiates the parametric description against a
// concrete target word. prefix, if non-empty, is
// matched literally ahead of the fuzzy suffix target — any other
// character anywhere in the prefix chain falls into a permanent dead
// sink, since the prefix never participates in the edit-distance budget.
func (d *ParametricDescription) BuildAutomaton(prefix, target []byte) (*Automaton, error) {
	if !utf8.Valid(prefix) || !utf8.Valid(target) {
		return nil, fmt.Errorf("levenshtein: BuildAutomaton requires UTF-8 input: %w", ierrors.ErrInvalidArgument)
	}

	prefixRunes := []rune(string(prefix))
	targetRunes := []rune(string(target))

	var arcsList [][]Arc
	final := map[StateID]int{}
	newState := func() StateID {
		arcsList = append(arcsList, nil)
		return StateID(len(arcsList) - 1)
	}
	addArc := func(from StateID, r rune, rho bool, to StateID) {
		arcsList[from] = append(arcsList[from], Arc{Label: r, Rho: rho, To: to})
	}

	start := newState()
	dead := newState()

	cur := start
	for _, r := range prefixRunes {
		next := newState()
		addArc(cur, r, false, next)
		addArc(cur, 0, true, dead)
		cur = next
	}
	entry := cur

	type dfaKey struct{ ps, off int }
	visited := map[dfaKey]StateID{{1, 0}: entry}

	markFinal := func(ps, off int, s StateID) {
		if ps == 0 {
			return
		}
		if dist := d.distanceAt(ps, len(targetRunes)-off); dist <= d.maxDistance {
			final[s] = dist
		}
	}
	markFinal(1, 0, entry)

	type item struct {
		ps, off int
		from    StateID
	}
	stack := []item{{1, 0, entry}}

	var alphabet []rune
	seen := map[rune]bool{}
	for _, r := range targetRunes {
		if !seen[r] {
			seen[r] = true
			alphabet = append(alphabet, r)
		}
	}

	resolve := func(ps, off int) (dfaKey, bool) {
		k := dfaKey{ps, off}
		_, ok := visited[k]
		return k, ok
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rho := d.transitions[it.ps][0]
		rhoOff := it.off + rho.shift
		if rho.next == 0 {
			rhoOff = 0
		}
		rhoKey, ok := resolve(rho.next, rhoOff)
		rhoState := visited[rhoKey]
		if !ok {
			rhoState = newState()
			visited[rhoKey] = rhoState
			markFinal(rho.next, rhoOff, rhoState)
			stack = append(stack, item{rho.next, rhoOff, rhoState})
		}
		addArc(it.from, 0, true, rhoState)

		for _, r := range alphabet {
			chi := characteristicVector(targetRunes, it.off, d.window, r)
			tr := d.transitions[it.ps][chi]
			off2 := it.off + tr.shift
			if tr.next == 0 {
				off2 = 0
			}
			k := dfaKey{tr.next, off2}
			if k == rhoKey {
				continue // already covered by the rho arc
			}
			to, ok := visited[k]
			if !ok {
				to = newState()
				visited[k] = to
				markFinal(tr.next, off2, to)
				stack = append(stack, item{tr.next, off2, to})
			}
			addArc(it.from, r, false, to)
		}
	}

	for s := range arcsList {
		sort.Slice(arcsList[s], func(i, j int) bool {
			if arcsList[s][i].Rho != arcsList[s][j].Rho {
				return !arcsList[s][i].Rho // literal arcs sort before rho
			}
			return arcsList[s][i].Label < arcsList[s][j].Label
		})
	}

	return &Automaton{start: start, arcs: arcsList, final: final}, nil
}
