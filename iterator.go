package iresearch

// DocIterator walks a strictly increasing sequence of document ids. Before
// the first call to Next or Seek it is positioned before the first
// document (Value reports DocIDInvalid; the empty iterator reports
// DocIDEOF from the start); after it is exhausted, Value reports DocIDEOF
// and both Next and Seek keep returning false/DocIDEOF.
//
// Seek(target) advances to the smallest document id >= target and returns
// it; calling Seek with a target <= the current value is a no-op that
// returns the current value (seek never moves backward), except for the
// Consolidation iteration hint, where backward seeks are explicitly
// undefined — see columnIterator.
type DocIterator interface {
	Next() bool
	Seek(target DocID) DocID
	Value() DocID

	// Cost is a cheap, possibly approximate upper bound on the number of
	// documents this iterator can produce, used by conjunction to order
	// children cheapest-first.
	Cost() uint64

	// Attribute looks up an entry in this iterator's attribute bag. ok
	// is false if the attribute is not present on this iterator.
	Attribute(t AttrType) (any, bool)
}

// emptyIterator is the DocIterator returned wherever the algebra needs a
// no-op placeholder: an absent column in Existence, a zero-child
// conjunction/disjunction.
type emptyIterator struct{}

func (emptyIterator) Next() bool                        { return false }
func (emptyIterator) Seek(DocID) DocID                   { return DocIDEOF }
func (emptyIterator) Value() DocID                       { return DocIDEOF }
func (emptyIterator) Cost() uint64                       { return 0 }
func (emptyIterator) Attribute(AttrType) (any, bool)     { return nil, false }

// EmptyIterator returns the shared, stateless empty DocIterator.
func EmptyIterator() DocIterator { return emptyIterator{} }
