package iresearch

// AttrType identifies an entry in a DocIterator's attribute bag. The set is
// closed: document, cost, score, payload — mirroring the four-slot
// attribute_mapping a column_existence_iterator wires up over its wrapped
// column iterator.
type AttrType int

const (
	AttrDocument AttrType = iota
	AttrCost
	AttrScore
	AttrPayload
)

// ScoreFunc is a scoring closure. A nil ScoreFunc (absent from the
// attribute bag) means the iterator participates in no ranking and
// contributes nothing to a parent's merged score.
type ScoreFunc func() float64

// ScoreFuncPayload is the payload-attribute closure shape: callers invoke
// it to fetch the current position's value bytes, which may be empty for
// a mask column.
type ScoreFuncPayload func() []byte

// Merger combines two partial score contributions into one. Sum is the
// default; callers that want a different ranking model supply their own.
type Merger interface {
	Merge(dst, src float64) float64
}

// SumMerger merges scores by addition.
type SumMerger struct{}

func (SumMerger) Merge(dst, src float64) float64 { return dst + src }

// attributes is a concrete cost/score/payload attribute bag with its own
// Attribute lookup. The iterators in this package do not embed it; each
// implements Attribute itself (the column iterator reports cost and
// payload, the composite iterators cost, score and, for existence,
// payload passed through from the child).
type attributes struct {
	cost    uint64
	score   ScoreFunc
	payload ScoreFuncPayload
}

// Attribute implements the lookup half of the bag. ok is false when the
// attribute is absent (e.g. no scorer configured), never when the type id
// itself is unrecognized — callers pass one of the AttrType constants.
func (a *attributes) Attribute(t AttrType) (any, bool) {
	switch t {
	case AttrCost:
		return a.cost, true
	case AttrScore:
		if a.score == nil {
			return nil, false
		}
		return a.score, true
	case AttrPayload:
		if a.payload == nil {
			return nil, false
		}
		return a.payload, true
	default:
		return nil, false
	}
}
