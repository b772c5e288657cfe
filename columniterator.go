package iresearch

import "sort"

// columnIterator is the DocIterator a ColumnReader hands out. It caches
// exactly one materialized block at a time: sequential iteration and
// forward seeks only ever touch the current or a later block, so there is
// nothing to gain from caching more.
//
// Under HintConsolidation the iterator never seeks backward — this is the
// streaming variant used during segment merges and does not retain
// whatever state a rewind would need; backward Seek is left undefined for
// it, matching the unresolved Open Question on this hint.
type columnIterator struct {
	col      *ColumnReader
	hint     IteratorHint
	blockIdx int
	block    *materializedBlock
	rank     int
	cur      DocID
	err      error
}

// Err returns the first decode error encountered, if any. Not part of the
// DocIterator interface; callers that need decode-failure detail assert to
// *columnIterator.
func (it *columnIterator) Err() error { return it.err }

func (it *columnIterator) Value() DocID { return it.cur }

func (it *columnIterator) Cost() uint64 { return it.col.header.Count }

func (it *columnIterator) Attribute(t AttrType) (any, bool) {
	switch t {
	case AttrCost:
		return it.col.header.Count, true
	case AttrPayload:
		var pf ScoreFuncPayload = it.payload
		return pf, true
	default:
		return nil, false
	}
}

func (it *columnIterator) payload() []byte {
	if it.block == nil || it.rank < 0 {
		return nil
	}
	return it.block.valueAt(it.rank)
}

func (it *columnIterator) docAtRank(rank int) DocID {
	if it.block.variant.dense() {
		return it.block.firstKey + DocID(rank)
	}
	v, err := it.block.bitmap.Select(uint32(rank))
	if err != nil {
		it.err = err
		return DocIDEOF
	}
	return it.block.firstKey + DocID(v)
}

func (it *columnIterator) advanceBlock(i int) bool {
	if i < 0 || i >= len(it.col.header.Blocks) {
		return false
	}
	if it.blockIdx == i && it.block != nil {
		return true
	}
	mb, err := it.col.materialize(i)
	if err != nil {
		it.err = err
		return false
	}
	it.block = mb
	it.blockIdx = i
	it.rank = -1
	return true
}

func (it *columnIterator) Next() bool {
	if it.cur == DocIDEOF {
		return false
	}
	if it.block == nil {
		if !it.advanceBlock(0) {
			it.cur = DocIDEOF
			return false
		}
	}
	for {
		nextRank := it.rank + 1
		if nextRank < it.block.count {
			it.rank = nextRank
			it.cur = it.docAtRank(nextRank)
			return it.cur != DocIDEOF
		}
		if !it.advanceBlock(it.blockIdx + 1) {
			it.cur = DocIDEOF
			return false
		}
	}
}

// Seek binary searches the block index for the block whose span could
// contain target, then locates the smallest present key >= target within
// it (direct offset for dense blocks, popcount-indexed rank via the
// block's bitmap for sparse ones), advancing to the following block's
// first key if target falls in a gap that reaches past the current
// block's end.
func (it *columnIterator) Seek(target DocID) DocID {
	if it.cur == DocIDEOF {
		return DocIDEOF
	}
	if it.cur != DocIDInvalid && target <= it.cur {
		return it.cur
	}

	blocks := it.col.header.Blocks
	i := sort.Search(len(blocks), func(i int) bool { return blocks[i].FirstKey > target }) - 1
	if i < 0 {
		i = 0
	}

	for {
		if !it.advanceBlock(i) {
			it.cur = DocIDEOF
			return DocIDEOF
		}
		if target > it.col.blockMaxDoc(i) {
			i++
			continue
		}
		local := int(int64(target) - int64(it.block.firstKey))
		if rank, ok := it.block.present(local); ok {
			it.rank = rank
			it.cur = target
			return target
		}
		if nextLocal, nextRank, ok := it.block.nextPresent(local); ok {
			it.rank = nextRank
			it.cur = it.block.firstKey + DocID(nextLocal)
			return it.cur
		}
		i++
	}
}
