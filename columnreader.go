package iresearch

import (
	"fmt"

	"github.com/wanghenshui/iresearch/compression"
	ierrors "github.com/wanghenshui/iresearch/errors"
)

// ColumnReader gives random-access and iterator views over one column's
// blocks. It holds no mutable state of its own; every ColumnReader
// obtained from the same Reader shares the Reader's mmap'd data bytes.
type ColumnReader struct {
	header *columnHeader
	data   []byte
	codec  compression.Codec
}

func (c *ColumnReader) ID() uint64     { return c.header.ID }
func (c *ColumnReader) Name() string   { return c.header.Name }
func (c *ColumnReader) Size() uint64   { return c.header.Count }
func (c *ColumnReader) Min() DocID     { return c.header.MinDoc }
func (c *ColumnReader) Max() DocID     { return c.header.MaxDoc }

// Iterator returns a DocIterator positioned before the first document.
// hint selects between random-seek (Normal) and forward-only streaming
// (Consolidation) behavior; see columnIterator's seek documentation.
func (c *ColumnReader) Iterator(hint IteratorHint) DocIterator {
	if len(c.header.Blocks) == 0 {
		return EmptyIterator()
	}
	return &columnIterator{col: c, hint: hint, blockIdx: -1, rank: -1, cur: DocIDInvalid}
}

// blockMaxDoc returns the largest doc-id covered by block i: the next
// block's first key minus one, or the column's max for the last block.
func (c *ColumnReader) blockMaxDoc(i int) DocID {
	if i+1 < len(c.header.Blocks) {
		return c.header.Blocks[i+1].FirstKey - 1
	}
	return c.header.MaxDoc
}

func (c *ColumnReader) materialize(i int) (*materializedBlock, error) {
	b := c.header.Blocks[i]
	if b.DataOffset+b.ByteSize > uint64(len(c.data)) {
		return nil, fmt.Errorf("columnreader: block %d of %q overruns data file: %w", i, c.header.Name, ierrors.ErrCorruption)
	}
	raw := c.data[b.DataOffset : b.DataOffset+b.ByteSize]
	return decodeBlock(raw, b.FirstKey, b.Variant, c.codec)
}
