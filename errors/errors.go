// Package errors defines all exported error sentinels for the segment engine.
//
// This is the single source of truth for error values, used across the
// columnar store, the doc-iterator algebra, and the levenshtein package, so
// errors.Is checks work across package boundaries regardless of where an
// error is detected.
package errors

import "errors"

// Kind classifies a sentinel into one of the five error kinds the engine
// distinguishes. Callers that need to branch on kind rather than on a
// specific sentinel can use KindOf.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindCorruption
	KindCapacityExceeded
	KindInvalidArgument
	KindNotFound
)

var (
	// ErrIO covers failures reported by the underlying Directory
	// implementation (short reads, failed writes, failed renames).
	ErrIO = errors.New("iresearch: i/o error")

	// ErrCorruption covers on-disk data that fails a structural check:
	// bad magic, checksum mismatch, a block whose declared size overruns
	// the file, an inconsistent block index.
	ErrCorruption = errors.New("iresearch: corrupted data")

	// ErrCapacityExceeded covers writes that would exceed a hard limit of
	// the format. The one such check is a doc-id outside the 31-bit
	// doc-id space; column name and value sizes are not checked.
	ErrCapacityExceeded = errors.New("iresearch: capacity exceeded")

	// ErrInvalidArgument covers caller contract violations: a
	// non-increasing doc-id sequence, a malformed parametric-description
	// request, an empty column-prefix query.
	ErrInvalidArgument = errors.New("iresearch: invalid argument")

	// ErrNotFound covers an absent column or segment file. Per the
	// column lookup contract this is not surfaced as a hard error from
	// ColumnByName; it is returned by FSDirectory when a requested file
	// does not exist, and so by OpenReader for a missing segment file.
	ErrNotFound = errors.New("iresearch: not found")
)

// KindOf reports the Kind a wrapped error belongs to, by walking errors.Is
// against each sentinel. Returns KindUnknown if err does not wrap one of the
// sentinels in this package.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrCorruption):
		return KindCorruption
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}
