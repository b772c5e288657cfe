package iresearch

import "sort"

// conjunction implements the galloping-seek AND algorithm from
// conjunction.hpp: children are sorted cheapest-first, the lead (front)
// child drives the search, and the rest "ratchet" forward to confirm or
// move the target — never stepping backward.
type conjunction struct {
	children []DocIterator
	cur      DocID
	score    ScoreFunc
	cost     uint64
}

// NewConjunction builds a DocIterator that produces exactly the documents
// every one of children produces. A zero-length input yields the empty
// iterator; a single child is returned unwrapped.
func NewConjunction(children []DocIterator, merger Merger) DocIterator {
	children = append([]DocIterator(nil), children...)
	switch len(children) {
	case 0:
		return EmptyIterator()
	case 1:
		return children[0]
	}

	sort.Slice(children, func(i, j int) bool { return children[i].Cost() < children[j].Cost() })

	c := &conjunction{children: children, cur: DocIDInvalid, cost: children[0].Cost()}
	c.score = mergeScores(collectScores(children), merger)
	return c
}

func (c *conjunction) front() DocIterator { return c.children[0] }

// seekRest advances every child but the lead to at least target and
// returns the largest doc-id any of them landed past target (or target
// itself if every child was already there).
func (c *conjunction) seekRest(target DocID) DocID {
	for _, child := range c.children[1:] {
		if d := child.Seek(target); d > target {
			target = d
		}
	}
	return target
}

// converge repeatedly re-seeks the lead to whatever the rest settled on,
// until all children agree on one doc-id or the lead hits EOF.
func (c *conjunction) converge(target DocID) DocID {
	for {
		rest := c.seekRest(target)
		if rest == target {
			return target
		}
		target = c.front().Seek(rest)
		if target.IsEOF() {
			return DocIDEOF
		}
	}
}

func (c *conjunction) Next() bool {
	if !c.front().Next() {
		c.cur = DocIDEOF
		return false
	}
	c.cur = c.converge(c.front().Value())
	return c.cur.IsValid()
}

func (c *conjunction) Seek(target DocID) DocID {
	d := c.front().Seek(target)
	if d.IsEOF() {
		c.cur = DocIDEOF
		return DocIDEOF
	}
	c.cur = c.converge(d)
	return c.cur
}

func (c *conjunction) Value() DocID { return c.cur }
func (c *conjunction) Cost() uint64 { return c.cost }

func (c *conjunction) Attribute(t AttrType) (any, bool) {
	switch t {
	case AttrCost:
		return c.cost, true
	case AttrScore:
		if c.score == nil {
			return nil, false
		}
		return c.score, true
	default:
		return nil, false
	}
}
