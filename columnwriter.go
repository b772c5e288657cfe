package iresearch

import (
	"fmt"

	"github.com/wanghenshui/iresearch/compression"
	ierrors "github.com/wanghenshui/iresearch/errors"
)

// ColumnWriter accepts one column's (doc, value) pairs in strictly
// increasing doc-id order and folds them into 1024-key blocks. A
// ColumnWriter is single-producer: concurrent AddKey calls are not
// supported.
type ColumnWriter struct {
	id          uint64
	name        string
	codecID     uint16
	codec       compression.Codec
	appendBlock func([]byte) (uint64, error)

	pending []accumEntry
	blocks  []blockIndexEntry

	count  uint64
	minDoc DocID
	maxDoc DocID
	have   bool
	last   DocID
	closed bool
}

func newColumnWriter(id uint64, name string, codecID uint16, codec compression.Codec, appendBlock func([]byte) (uint64, error)) *ColumnWriter {
	return &ColumnWriter{id: id, name: name, codecID: codecID, codec: codec, appendBlock: appendBlock}
}

// AddKey appends one (doc, value) pair. doc must be strictly greater than
// every previously added doc; value may be empty (an existence/mask
// column records presence with no payload at all).
func (w *ColumnWriter) AddKey(doc DocID, value []byte) error {
	if w.closed {
		return fmt.Errorf("columnwriter: %q is closed: %w", w.name, ierrors.ErrInvalidArgument)
	}
	if !doc.IsValid() || doc > MaxDocID {
		return fmt.Errorf("columnwriter: doc-id %d exceeds the 31-bit doc-id space: %w", doc, ierrors.ErrCapacityExceeded)
	}
	if w.have && doc <= w.last {
		return fmt.Errorf("columnwriter: doc-ids must be strictly increasing (got %d after %d): %w", doc, w.last, ierrors.ErrInvalidArgument)
	}

	if !w.have {
		w.minDoc = doc
		w.have = true
	}
	w.last = doc
	w.maxDoc = doc
	w.count++

	stored := append([]byte(nil), value...)
	w.pending = append(w.pending, accumEntry{doc: doc, value: stored})
	if len(w.pending) >= blockSize {
		return w.flush()
	}
	return nil
}

func (w *ColumnWriter) flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	body, variant, err := encodeBlock(w.pending, w.codec)
	if err != nil {
		return err
	}
	offset, err := w.appendBlock(body)
	if err != nil {
		return err
	}
	w.blocks = append(w.blocks, blockIndexEntry{
		FirstKey:   w.pending[0].doc,
		DataOffset: offset,
		ByteSize:   uint64(len(body)),
		Variant:    variant,
		count:      len(w.pending),
	})
	w.pending = w.pending[:0]
	return nil
}

// finish flushes any partial final block and returns the column's
// header, ready to be serialized. A column with zero entries is legal:
// it represents a field that exists in the schema but was never
// populated.
func (w *ColumnWriter) finish() (*columnHeader, error) {
	if w.closed {
		return nil, fmt.Errorf("columnwriter: %q already finished: %w", w.name, ierrors.ErrInvalidArgument)
	}
	w.closed = true
	if err := w.flush(); err != nil {
		return nil, err
	}
	h := &columnHeader{
		ID:          w.id,
		Name:        w.name,
		Count:       w.count,
		Compression: w.codecID,
		Blocks:      w.blocks,
	}
	if w.have {
		h.MinDoc = w.minDoc
		h.MaxDoc = w.maxDoc
	} else {
		h.MinDoc = DocIDInvalid
		h.MaxDoc = DocIDInvalid
	}
	return h, nil
}
