package iresearch

import (
	"fmt"
	"strings"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

// Prefix builds a DocIterator over every document that has a value in any
// column whose name starts with prefix: seek the columns directory to the
// first name >= prefix, collect an existence iterator per matching column
// while names keep starting with prefix, then union them with
// NewDisjunction.
//
// An empty prefix is rejected as invalid_argument rather than treated as
// matching every column, even though "" is technically a prefix of every
// string — a disjunction over the entire schema is never what a caller
// means by a prefix query.
func Prefix(reader *Reader, merger Merger, prefix string) (DocIterator, error) {
	if prefix == "" {
		return nil, fmt.Errorf("prefix: prefix must not be empty: %w", ierrors.ErrInvalidArgument)
	}

	var children []DocIterator
	for _, name := range reader.ColumnNamesFrom(prefix) {
		if !strings.HasPrefix(name, prefix) {
			break
		}
		col, err := reader.ColumnByName(name)
		if err != nil {
			return nil, err
		}
		if col == nil {
			continue
		}
		children = append(children, existenceOverColumn(col, HintNormal))
	}
	return NewDisjunction(children, merger), nil
}
