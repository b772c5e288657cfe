package compression

import "fmt"

import ierrors "github.com/wanghenshui/iresearch/errors"

// Identity is the passthrough codec, registered at id 0. A block whose
// compressed form would not be smaller than its raw form is stored raw
// under a per-block flag (see encodeBlock), whatever the column's codec.
type Identity struct{}

func (Identity) ID() uint16 { return 0 }

func (Identity) Encode(dst, src []byte) []byte {
	return append(dst, src...)
}

func (Identity) Decode(dst, src []byte, expectedLen int) ([]byte, error) {
	if len(src) != expectedLen {
		return nil, fmt.Errorf("compression: identity: length mismatch (got %d, want %d): %w", len(src), expectedLen, ierrors.ErrCorruption)
	}
	return append(dst, src...), nil
}
