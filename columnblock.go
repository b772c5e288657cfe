package iresearch

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/wanghenshui/iresearch/compression"
	ierrors "github.com/wanghenshui/iresearch/errors"
)

// accumEntry is one buffered (doc, value) pair waiting to be folded into a
// block.
type accumEntry struct {
	doc   DocID
	value []byte
}

// materializedBlock is the decoded, in-memory form of one on-disk block,
// cached by the column iterator so repeated seeks within the same block
// don't re-decompress it.
type materializedBlock struct {
	firstKey DocID
	variant  Variant
	count    int
	span     int     // doc-id span; for dense blocks span == count
	bitmap   *roaring.Bitmap // nil for dense variants
	valueSize int     // fixed-length variants only
	offsets  []uint32 // variable-length variants only, len count+1
	payload  []byte
}

// encodeBlock builds the on-disk bytes for one block of entries, choosing
// a variant via selectVariant and compressing the payload region with
// codec: if the compressed form is not smaller than raw, the raw form is
// stored with a tag.
func encodeBlock(entries []accumEntry, codec compression.Codec) (body []byte, variant Variant, err error) {
	n := len(entries)
	if n == 0 {
		return nil, 0, fmt.Errorf("columnblock: empty block: %w", ierrors.ErrInvalidArgument)
	}
	minDoc, maxDoc := entries[0].doc, entries[n-1].doc
	span := int(maxDoc-minDoc) + 1

	allEmpty := true
	fixedLen := true
	valueSize := len(entries[0].value)
	for _, e := range entries {
		if len(e.value) != 0 {
			allEmpty = false
		}
		if len(e.value) != valueSize {
			fixedLen = false
		}
	}
	if allEmpty {
		fixedLen = false
	}

	variant = selectVariant(n, span, allEmpty, fixedLen)

	out := &dataOutput{}
	out.WriteVarint(uint64(n))

	var bitmap *roaring.Bitmap
	if !variant.dense() {
		bitmap = roaring.New()
		for _, e := range entries {
			bitmap.Add(uint32(e.doc - minDoc))
		}
		bmBytes, berr := bitmap.ToBytes()
		if berr != nil {
			return nil, 0, fmt.Errorf("columnblock: bitmap serialize: %w: %v", ierrors.ErrIO, berr)
		}
		out.WriteVarint(uint64(span))
		out.WriteVarint(uint64(len(bmBytes)))
		out.WriteBytes(bmBytes)
	}

	var rawPayload []byte
	switch variant {
	case VariantDenseMask, VariantSparseMask:
		// no payload at all.
	case VariantDenseFixed, VariantSparseFixed:
		out.WriteVarint(uint64(valueSize))
		rawPayload = make([]byte, 0, n*valueSize)
		for _, e := range entries {
			rawPayload = append(rawPayload, e.value...)
		}
	default: // DenseVariable, SparseVariable
		offsets := make([]byte, 0, (n+1)*4)
		var off uint32
		for i := 0; i < 4; i++ {
			offsets = append(offsets, byte(off>>(8*i)))
		}
		rawPayload = make([]byte, 0)
		for _, e := range entries {
			rawPayload = append(rawPayload, e.value...)
			off += uint32(len(e.value))
			for i := 0; i < 4; i++ {
				offsets = append(offsets, byte(off>>(8*i)))
			}
		}
		out.WriteBytes(offsets)
	}

	compressed := codec.Encode(nil, rawPayload)
	raw := byte(0)
	payload := compressed
	if len(rawPayload) > 0 && len(compressed) >= len(rawPayload) {
		raw = 1
		payload = rawPayload
	}
	out.WriteByte(raw)
	out.WriteVarint(uint64(len(rawPayload)))
	out.WriteBytes(payload)

	sum := xorChecksum(out.Bytes())
	out.WriteUint64(sum)

	return out.Bytes(), variant, nil
}

// decodeBlock parses and decompresses one on-disk block.
func decodeBlock(raw []byte, firstKey DocID, variant Variant, codec compression.Codec) (*materializedBlock, error) {
	if len(raw) < 8 {
		return nil, fmt.Errorf("columnblock: block too short: %w", ierrors.ErrCorruption)
	}
	body, trailer := raw[:len(raw)-8], raw[len(raw)-8:]
	var want uint64
	for i := 0; i < 8; i++ {
		want |= uint64(trailer[i]) << (8 * i)
	}
	if got := xorChecksum(body); got != want {
		return nil, fmt.Errorf("columnblock: checksum mismatch: %w", ierrors.ErrCorruption)
	}

	in := newDataInput(body)
	count64, err := in.ReadVarint()
	if err != nil {
		return nil, err
	}
	count := int(count64)

	mb := &materializedBlock{firstKey: firstKey, variant: variant, count: count, span: count}

	if !variant.dense() {
		span64, err := in.ReadVarint()
		if err != nil {
			return nil, err
		}
		mb.span = int(span64)
		bmLen, err := in.ReadVarint()
		if err != nil {
			return nil, err
		}
		bmBytes, err := in.ReadBytes(int(bmLen))
		if err != nil {
			return nil, err
		}
		bm := roaring.New()
		if _, err := bm.FromBuffer(bmBytes); err != nil {
			return nil, fmt.Errorf("columnblock: bitmap parse: %w: %v", ierrors.ErrCorruption, err)
		}
		mb.bitmap = bm
	}

	switch variant {
	case VariantDenseMask, VariantSparseMask:
		// no payload.
		return mb, nil
	case VariantDenseFixed, VariantSparseFixed:
		vs, err := in.ReadVarint()
		if err != nil {
			return nil, err
		}
		mb.valueSize = int(vs)
	default:
		offsets := make([]uint32, count+1)
		for i := range offsets {
			b, err := in.ReadBytes(4)
			if err != nil {
				return nil, err
			}
			offsets[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		}
		mb.offsets = offsets
	}

	rawFlag, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	payloadLen, err := in.ReadVarint()
	if err != nil {
		return nil, err
	}
	payloadBytes, err := in.ReadBytes(in.Remaining())
	if err != nil {
		return nil, err
	}
	if rawFlag == 1 {
		mb.payload = payloadBytes
	} else {
		decoded, err := codec.Decode(nil, payloadBytes, int(payloadLen))
		if err != nil {
			return nil, err
		}
		mb.payload = decoded
	}
	return mb, nil
}

// valueAt returns the value bytes for the entry at block-local rank
// (0-indexed position among present keys), per the fixed/variable layout.
func (mb *materializedBlock) valueAt(rank int) []byte {
	switch mb.variant {
	case VariantDenseMask, VariantSparseMask:
		return nil
	case VariantDenseFixed, VariantSparseFixed:
		return mb.payload[rank*mb.valueSize : (rank+1)*mb.valueSize]
	default:
		return mb.payload[mb.offsets[rank]:mb.offsets[rank+1]]
	}
}

// present reports whether localOffset (doc - block.firstKey) holds a key,
// and if so its 0-indexed rank among the block's present keys.
func (mb *materializedBlock) present(localOffset int) (rank int, ok bool) {
	if localOffset < 0 || localOffset >= mb.span {
		return 0, false
	}
	if mb.variant.dense() {
		return localOffset, true
	}
	if !mb.bitmap.Contains(uint32(localOffset)) {
		return 0, false
	}
	return int(mb.bitmap.Rank(uint32(localOffset))) - 1, true
}

// nextPresent returns the smallest localOffset >= from that holds a key,
// and its rank, within this block's span.
func (mb *materializedBlock) nextPresent(from int) (localOffset, rank int, ok bool) {
	if from < 0 {
		from = 0
	}
	if mb.variant.dense() {
		if from >= mb.span {
			return 0, 0, false
		}
		return from, from, true
	}
	it := mb.bitmap.Iterator()
	it.AdvanceIfNeeded(uint32(from))
	if !it.HasNext() {
		return 0, 0, false
	}
	v := it.Next()
	return int(v), int(mb.bitmap.Rank(v)) - 1, true
}
