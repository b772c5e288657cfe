package iresearch

// blockSize is the number of present keys buffered before a block is
// flushed.
const blockSize = 1024

// Variant is the physical encoding of one block's worth of a column, one
// of six shapes chosen from N (keys present), D (doc-id span), and F
// (whether every present value has the same byte length).
type Variant uint8

const (
	VariantDenseFixed Variant = iota
	VariantDenseVariable
	VariantSparseFixed
	VariantSparseVariable
	VariantDenseMask
	VariantSparseMask
)

func (v Variant) dense() bool {
	return v == VariantDenseFixed || v == VariantDenseVariable || v == VariantDenseMask
}

func (v Variant) mask() bool {
	return v == VariantDenseMask || v == VariantSparseMask
}

// selectVariant picks the cheapest physical representation given the key
// count N, the doc-id span D = max-min+1, and whether every value has the
// same byte length F. allEmpty means the column carries no payload at
// all (an existence/mask column).
func selectVariant(n, d int, allEmpty, fixedLen bool) Variant {
	dense := d == n
	switch {
	case allEmpty && dense:
		return VariantDenseMask
	case allEmpty:
		return VariantSparseMask
	case dense && fixedLen:
		return VariantDenseFixed
	case dense:
		return VariantDenseVariable
	case fixedLen:
		return VariantSparseFixed
	default:
		return VariantSparseVariable
	}
}

// blockIndexEntry is one row of a column's in-memory block index,
// reconstructed from the header's delta-encoded form.
type blockIndexEntry struct {
	FirstKey   DocID
	DataOffset uint64
	ByteSize   uint64
	Variant    Variant
	// count and span are not stored in the column header; they live in
	// the block body itself (see columnblock.go). The writer records count
	// here for its own bookkeeping; an entry read back from a header
	// leaves both zero, and readers take them from the materialized block.
	count int
	span  int
}

// columnHeader is the decoded form of a column's on-disk header.
type columnHeader struct {
	ID          uint64
	Name        string
	Count       uint64
	MinDoc      DocID
	MaxDoc      DocID
	Compression uint16
	Encrypted   bool
	Blocks      []blockIndexEntry
}

// IteratorHint selects between the two iteration modes a ColumnReader can
// hand out: Normal for random-access lookups, Consolidation for
// forward-only streaming. The column iterator behaves the same under
// both: a Seek to a target at or before the current position returns the
// current position unchanged, and no iterator rewinds.
type IteratorHint uint8

const (
	HintNormal IteratorHint = iota
	HintConsolidation
)
