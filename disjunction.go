package iresearch

import "container/heap"

// disjunctionEntry pairs a still-live child iterator with its last known
// doc-id, ordered by (doc, a stable tiebreak) as the heap's Less.
type disjunctionEntry struct {
	it  DocIterator
	doc DocID
	seq int // insertion order, breaks ties deterministically
}

type disjunctionHeap []*disjunctionEntry

func (h disjunctionHeap) Len() int { return len(h) }
func (h disjunctionHeap) Less(i, j int) bool {
	if h[i].doc != h[j].doc {
		return h[i].doc < h[j].doc
	}
	return h[i].seq < h[j].seq
}
func (h disjunctionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *disjunctionHeap) Push(x any)   { *h = append(*h, x.(*disjunctionEntry)) }
func (h *disjunctionHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// disjunction implements the min-heap OR algorithm: Value is the minimum
// doc-id across every child still positioned at-or-after the last
// produced value; cost is the sum of children's costs.
type disjunction struct {
	children []DocIterator
	heapv    disjunctionHeap
	started  bool
	cur      DocID
	matched  []DocIterator // children positioned at cur, for score merge
	merger   Merger
	cost     uint64
	scored   bool
}

// NewDisjunction builds a DocIterator producing the union of children's
// documents. A zero-length input yields the empty iterator; a single
// child is returned unwrapped.
func NewDisjunction(children []DocIterator, merger Merger) DocIterator {
	switch len(children) {
	case 0:
		return EmptyIterator()
	case 1:
		return children[0]
	}
	var cost uint64
	for _, c := range children {
		cost += c.Cost()
	}
	scored := len(collectScores(children)) > 0
	return &disjunction{children: children, cur: DocIDInvalid, merger: merger, cost: cost, scored: scored}
}

func (d *disjunction) push(it DocIterator, doc DocID, seq int) {
	heap.Push(&d.heapv, &disjunctionEntry{it: it, doc: doc, seq: seq})
}

func (d *disjunction) settle() bool {
	if len(d.heapv) == 0 {
		d.cur = DocIDEOF
		return false
	}
	d.cur = d.heapv[0].doc
	d.matched = d.matched[:0]
	for _, e := range d.heapv {
		if e.doc == d.cur {
			d.matched = append(d.matched, e.it)
		}
	}
	return true
}

func (d *disjunction) Next() bool {
	if !d.started {
		d.started = true
		for i, c := range d.children {
			if c.Next() {
				d.push(c, c.Value(), i)
			}
		}
		return d.settle()
	}

	if len(d.heapv) == 0 {
		d.cur = DocIDEOF
		return false
	}
	top := d.heapv[0].doc
	for len(d.heapv) > 0 && d.heapv[0].doc == top {
		e := heap.Pop(&d.heapv).(*disjunctionEntry)
		if e.it.Next() {
			d.push(e.it, e.it.Value(), e.seq)
		}
	}
	return d.settle()
}

func (d *disjunction) Seek(target DocID) DocID {
	if !d.started {
		d.started = true
		for i, c := range d.children {
			doc := c.Seek(target)
			if doc.IsValid() {
				d.push(c, doc, i)
			}
		}
		d.settle()
		return d.cur
	}

	if d.cur != DocIDInvalid && target <= d.cur {
		return d.cur
	}

	old := d.heapv
	d.heapv = nil
	for _, e := range old {
		doc := e.doc
		if doc < target {
			doc = e.it.Seek(target)
		}
		if doc.IsValid() {
			d.push(e.it, doc, e.seq)
		}
	}
	d.settle()
	return d.cur
}

func (d *disjunction) Value() DocID { return d.cur }
func (d *disjunction) Cost() uint64 { return d.cost }

func (d *disjunction) Attribute(t AttrType) (any, bool) {
	switch t {
	case AttrCost:
		return d.cost, true
	case AttrScore:
		if !d.scored {
			return nil, false
		}
		return ScoreFunc(func() float64 {
			sf := mergeScores(collectScores(d.matched), d.merger)
			if sf == nil {
				return 0
			}
			return sf()
		}), true
	default:
		return nil, false
	}
}
