// Package compression provides the compression collaborator: a numeric
// id, resolvable at read time, mapped to an Encode/Decode pair. The
// registry is an explicit catalogue passed at construction, not a
// package-level init() side-registration.
package compression

import (
	"fmt"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

// Codec is the Go shape of the Compression collaborator.
type Codec interface {
	// Encode appends the compressed form of src to dst and returns the
	// result.
	Encode(dst, src []byte) []byte

	// Decode appends the decompressed form of src to dst and returns the
	// result. expectedLen is the original, uncompressed length recorded
	// at encode time; decoders use it to size the destination and to
	// detect truncated input.
	Decode(dst, src []byte, expectedLen int) ([]byte, error)
}

// Registry resolves a numeric codec id (the column header's `compression`
// field) to a Codec.
type Registry struct {
	codecs map[uint16]Codec
}

// NewRegistry builds a registry from a set of codecs, keyed by their
// reported ID.
func NewRegistry(codecs ...IdentifiedCodec) *Registry {
	r := &Registry{codecs: make(map[uint16]Codec, len(codecs))}
	for _, c := range codecs {
		r.codecs[c.ID()] = c
	}
	return r
}

// IdentifiedCodec is a Codec that knows its own registry id.
type IdentifiedCodec interface {
	Codec
	ID() uint16
}

// Lookup resolves id to a codec.
func (r *Registry) Lookup(id uint16) (Codec, bool) {
	c, ok := r.codecs[id]
	return c, ok
}

// Register adds or replaces the codec for id.
func (r *Registry) Register(id uint16, codec Codec) {
	if r.codecs == nil {
		r.codecs = make(map[uint16]Codec)
	}
	r.codecs[id] = codec
}

// ErrUnknownCodec is returned by Reader/ColumnReader when a column's
// compression id has no registered codec.
func ErrUnknownCodec(id uint16) error {
	return fmt.Errorf("compression: no codec registered for id %d: %w", id, ierrors.ErrCorruption)
}

// Default builds the standard registry: Identity at id 0, LZ4 at id 1.
func Default() *Registry {
	return NewRegistry(Identity{}, NewLZ4())
}
