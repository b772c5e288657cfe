package compression

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

// LZ4 wraps github.com/pierrec/lz4/v4's block API (no frame headers — the
// column header's byte_size field already records the on-disk length, so
// LZ4's own frame would be redundant overhead). Registered at id 1.
type LZ4 struct {
	comp *lz4.Compressor
}

// NewLZ4 returns an LZ4 codec with its own reusable compressor state.
func NewLZ4() *LZ4 {
	return &LZ4{comp: &lz4.Compressor{}}
}

func (c *LZ4) ID() uint16 { return 1 }

// Encode attempts LZ4 block compression. If the block API declines (the
// input is incompressible, or the compressed form would not be smaller),
// it returns src unchanged at the same length: the caller (the columnar
// writer's block builder) compares output length against the raw length
// and stores such a block raw under its per-block raw flag. Decode
// recognizes the fallback by its length (equal to expectedLen, which a
// kept compressed block never is) and returns it as is.
func (c *LZ4) Encode(dst, src []byte) []byte {
	if len(src) == 0 {
		return dst
	}
	buf := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := c.comp.CompressBlock(src, buf)
	if err != nil || n <= 0 || n >= len(src) {
		return append(dst, src...)
	}
	return append(dst, buf[:n]...)
}

func (c *LZ4) Decode(dst, src []byte, expectedLen int) ([]byte, error) {
	if expectedLen == 0 {
		return dst, nil
	}
	if len(src) == expectedLen {
		return append(dst, src...), nil
	}
	buf := make([]byte, expectedLen)
	n, err := lz4.UncompressBlock(src, buf)
	if err != nil {
		return nil, fmt.Errorf("compression: lz4: %w: %v", ierrors.ErrCorruption, err)
	}
	if n != expectedLen {
		return nil, fmt.Errorf("compression: lz4: length mismatch (got %d, want %d): %w", n, expectedLen, ierrors.ErrCorruption)
	}
	return append(dst, buf[:n]...), nil
}
