package iresearch

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/wanghenshui/iresearch/compression"
	ierrors "github.com/wanghenshui/iresearch/errors"
)

// Reader opens a segment written by Writer for reading. When the
// Directory implements MMapDirectory it memory-maps both the index and
// data files; otherwise it reads each file into memory in one pass.
type Reader struct {
	dir      Directory
	registry *compression.Registry

	indexData   []byte
	indexCloser io.Closer
	dataData    []byte
	dataCloser  io.Closer

	byName map[string]*columnHeader
	byID   map[uint64]*columnHeader
	names  []string // sorted, for Prefix
}

// OpenReader opens the segment stored in dir. Every column header is
// parsed and cached at open time: the footer records only byte offsets,
// so locating a column by name requires decoding its header regardless,
// and caching once up front avoids re-parsing on repeated lookups.
func OpenReader(dir Directory, registry *compression.Registry) (*Reader, error) {
	r := &Reader{dir: dir, registry: registry, byName: make(map[string]*columnHeader), byID: make(map[uint64]*columnHeader)}

	indexData, indexCloser, err := openMapped(dir, indexFileName)
	if err != nil {
		return nil, err
	}
	r.indexData, r.indexCloser = indexData, indexCloser

	dataData, dataCloser, err := openMapped(dir, dataFileName)
	if err != nil {
		indexCloser.Close()
		return nil, err
	}
	r.dataData, r.dataCloser = dataData, dataCloser

	if err := r.load(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func openMapped(dir Directory, name string) ([]byte, io.Closer, error) {
	if mm, ok := dir.(MMapDirectory); ok {
		return mm.OpenMMap(name)
	}
	rc, err := dir.OpenRead(name)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	// Without MMapDirectory support the whole file is about to be read
	// into memory in one pass; hint the kernel it will be sequential.
	if f, ok := rc.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			fadviseSequential(int(f.Fd()), 0, info.Size())
		}
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("segmentreader: read %s: %w: %v", name, ierrors.ErrIO, err)
	}
	return data, io.NopCloser(nil), nil
}

func (r *Reader) load() error {
	if len(r.indexData) < 4 {
		return fmt.Errorf("segmentreader: index file too short: %w", ierrors.ErrCorruption)
	}
	n := len(r.indexData)
	footerLen := le32(r.indexData[n-4:])
	if int(footerLen)+4 > n {
		return fmt.Errorf("segmentreader: invalid footer length: %w", ierrors.ErrCorruption)
	}
	footerBytes := r.indexData[n-4-int(footerLen) : n-4]
	ft, err := readFooter(footerBytes)
	if err != nil {
		return err
	}

	headersBytes := r.indexData[:n-4-int(footerLen)]
	for _, off := range ft.Offsets {
		if off > uint64(len(headersBytes)) {
			return fmt.Errorf("segmentreader: column offset out of range: %w", ierrors.ErrCorruption)
		}
		in := newDataInput(headersBytes)
		in.pos = int(off)
		h, err := readColumnHeader(in)
		if err != nil {
			return err
		}
		r.byName[h.Name] = h
		r.byID[h.ID] = h
		r.names = append(r.names, h.Name)
	}
	sort.Strings(r.names)
	return nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// ColumnByName returns the column named name, or (nil, nil) if absent —
// an absent column is not an error at this layer; callers that build
// iterators (Existence, Prefix) turn a nil result into an empty iterator
// themselves.
func (r *Reader) ColumnByName(name string) (*ColumnReader, error) {
	h, ok := r.byName[name]
	if !ok {
		return nil, nil
	}
	return r.columnReader(h)
}

// ColumnByID returns the column with the given stable id, or (nil, nil)
// if absent.
func (r *Reader) ColumnByID(id uint64) (*ColumnReader, error) {
	h, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return r.columnReader(h)
}

// ColumnNamesFrom returns every column name >= prefix, in ascending
// order, for Prefix's seek-the-columns-directory step.
func (r *Reader) ColumnNamesFrom(prefix string) []string {
	i := sort.SearchStrings(r.names, prefix)
	return r.names[i:]
}

func (r *Reader) columnReader(h *columnHeader) (*ColumnReader, error) {
	if h.Encrypted {
		return nil, fmt.Errorf("segmentreader: column %q is encrypted, no decryptor configured: %w", h.Name, ierrors.ErrInvalidArgument)
	}
	codec, ok := r.registry.Lookup(h.Compression)
	if !ok {
		return nil, compression.ErrUnknownCodec(h.Compression)
	}
	return &ColumnReader{header: h, data: r.dataData, codec: codec}, nil
}

// Close releases the underlying mmaps.
func (r *Reader) Close() error {
	var firstErr error
	if r.dataCloser != nil {
		if err := r.dataCloser.Close(); err != nil {
			firstErr = err
		}
	}
	if r.indexCloser != nil {
		if err := r.indexCloser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
