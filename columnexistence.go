package iresearch

import (
	"fmt"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

// existenceIterator wraps a column's iterator, overriding cost to the
// column's total doc count and passing document/payload through
// unchanged.
type existenceIterator struct {
	child DocIterator
	cost  uint64
	score ScoreFunc
}

func (e *existenceIterator) Next() bool          { return e.child.Next() }
func (e *existenceIterator) Seek(d DocID) DocID  { return e.child.Seek(d) }
func (e *existenceIterator) Value() DocID        { return e.child.Value() }
func (e *existenceIterator) Cost() uint64        { return e.cost }

func (e *existenceIterator) Attribute(t AttrType) (any, bool) {
	switch t {
	case AttrCost:
		return e.cost, true
	case AttrScore:
		if e.score == nil {
			return nil, false
		}
		return e.score, true
	case AttrPayload:
		return e.child.Attribute(AttrPayload)
	default:
		return nil, false
	}
}

// Existence builds a DocIterator over every document that has a value in
// the named column, regardless of what that value is. If the column does
// not exist, the result is the empty iterator, not an error.
func Existence(reader *Reader, field string) (DocIterator, error) {
	if field == "" {
		return nil, fmt.Errorf("existence: field name must not be empty: %w", ierrors.ErrInvalidArgument)
	}
	col, err := reader.ColumnByName(field)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return EmptyIterator(), nil
	}
	return existenceOverColumn(col, HintNormal), nil
}

func existenceOverColumn(col *ColumnReader, hint IteratorHint) DocIterator {
	return &existenceIterator{child: col.Iterator(hint), cost: col.Size()}
}
