package iresearch

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wanghenshui/iresearch/compression"
	ierrors "github.com/wanghenshui/iresearch/errors"
)

const (
	dataFileName  = "columns.data"
	indexFileName = "columns.index"
)

// Writer builds one segment's columnar store. Columns are independent
// but share one data file; block bytes from different columns interleave
// as each column's blocks are flushed. Writers are single-producer per
// column, not per segment — concurrent ColumnWriters may be driven from
// different goroutines as long as each one only ever sees one producer.
type Writer struct {
	dir      Directory
	registry *compression.Registry
	out      io.WriteCloser

	mu     sync.Mutex
	offset uint64

	columns []*ColumnWriter
	byName  map[string]bool
}

// NewWriter opens a new segment for writing in dir. If sizeHint is
// positive and dir's data file is backed by a regular *os.File, the file
// is pre-allocated to sizeHint bytes up front via fallocateFile, avoiding
// repeated filesystem extent growth during a long sequential append.
func NewWriter(dir Directory, registry *compression.Registry, sizeHint int64) (*Writer, error) {
	out, err := dir.CreateOutput(dataFileName)
	if err != nil {
		return nil, err
	}
	if sizeHint > 0 {
		if f, ok := out.(*os.File); ok {
			if err := fallocateFile(f, sizeHint); err != nil {
				out.Close()
				return nil, fmt.Errorf("segmentwriter: preallocate: %w: %v", ierrors.ErrIO, err)
			}
		}
	}
	return &Writer{dir: dir, registry: registry, out: out, byName: make(map[string]bool)}, nil
}

// Column declares a new column, identified by a stable id derived
// deterministically from name via xxhash so the same schema produces the
// same column id across independent segment builds.
func (w *Writer) Column(name string, codecID uint16) (*ColumnWriter, error) {
	if name == "" {
		return nil, fmt.Errorf("segmentwriter: column name must not be empty: %w", ierrors.ErrInvalidArgument)
	}
	if w.byName[name] {
		return nil, fmt.Errorf("segmentwriter: duplicate column %q: %w", name, ierrors.ErrInvalidArgument)
	}
	codec, ok := w.registry.Lookup(codecID)
	if !ok {
		return nil, compression.ErrUnknownCodec(codecID)
	}
	id := xxhash.Sum64String(name)
	cw := newColumnWriter(id, name, codecID, codec, w.appendBlock)
	w.byName[name] = true
	w.columns = append(w.columns, cw)
	return cw, nil
}

func (w *Writer) appendBlock(body []byte) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	offset := w.offset
	n, err := w.out.Write(body)
	if err != nil {
		return 0, fmt.Errorf("segmentwriter: write block: %w: %v", ierrors.ErrIO, err)
	}
	w.offset += uint64(n)
	return offset, nil
}

// Commit flushes every column's final (partial) block and writes the
// index file's column headers and footer. The per-column finish (variant
// selection + compression) is fanned out across golang.org/x/sync/errgroup,
// bounded by GOMAXPROCS; the first error cancels the columns whose finish
// has not started yet. The actual file appends inside finish stay
// serialized by appendBlock's mutex, so only the CPU-bound part
// parallelizes.
func (w *Writer) Commit() error {
	headers := make([]*columnHeader, len(w.columns))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cw := range w.columns {
		i, cw := i, cw
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := cw.finish()
			if err != nil {
				return err
			}
			headers[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := w.out.Close(); err != nil {
		return fmt.Errorf("segmentwriter: close data file: %w: %v", ierrors.ErrIO, err)
	}

	sort.Slice(headers, func(i, j int) bool { return headers[i].Name < headers[j].Name })

	idx, err := w.dir.CreateOutput(indexFileName)
	if err != nil {
		return err
	}
	defer idx.Close()

	buf := &dataOutput{}
	offsets := make([]uint64, len(headers))
	for i, h := range headers {
		offsets[i] = uint64(buf.Len())
		writeColumnHeader(buf, h)
	}

	footerStart := buf.Len()
	writeFooter(buf, offsets)
	footerLen := uint32(buf.Len() - footerStart)
	buf.WriteUint32(footerLen)

	if _, err := idx.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("segmentwriter: write index: %w: %v", ierrors.ErrIO, err)
	}
	return nil
}
