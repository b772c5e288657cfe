package iresearch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/edsrzf/mmap-go"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

// Directory is the storage collaborator: the engine never calls os
// directly, only through this interface, so a host can supply an
// in-memory, networked, or encrypted-at-rest implementation.
type Directory interface {
	List() ([]string, error)
	OpenRead(name string) (io.ReadCloser, error)
	CreateOutput(name string) (io.WriteCloser, error)
	Rename(oldName, newName string) error
	Remove(name string) error
}

// MMapDirectory is an optional capability a Directory can implement to let
// readers memory-map a file instead of copying it into a buffer. The
// returned data is valid until closer.Close is called.
type MMapDirectory interface {
	OpenMMap(name string) (data []byte, closer io.Closer, err error)
}

// FSDirectory is the default Directory, backed by the local filesystem and
// github.com/edsrzf/mmap-go for zero-copy reads.
type FSDirectory struct {
	path string
}

// NewFSDirectory creates (if needed) and opens a directory rooted at path.
func NewFSDirectory(path string) (*FSDirectory, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("directory: %w: %v", ierrors.ErrIO, err)
	}
	return &FSDirectory{path: path}, nil
}

func (d *FSDirectory) full(name string) string { return filepath.Join(d.path, name) }

func (d *FSDirectory) List() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("directory: list: %w: %v", ierrors.ErrIO, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *FSDirectory) OpenRead(name string) (io.ReadCloser, error) {
	f, err := os.Open(d.full(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory: %s: %w", name, ierrors.ErrNotFound)
		}
		return nil, fmt.Errorf("directory: open %s: %w: %v", name, ierrors.ErrIO, err)
	}
	return f, nil
}

func (d *FSDirectory) CreateOutput(name string) (io.WriteCloser, error) {
	f, err := os.OpenFile(d.full(name), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("directory: create %s: %w: %v", name, ierrors.ErrIO, err)
	}
	return f, nil
}

func (d *FSDirectory) Rename(oldName, newName string) error {
	if err := os.Rename(d.full(oldName), d.full(newName)); err != nil {
		return fmt.Errorf("directory: rename: %w: %v", ierrors.ErrIO, err)
	}
	return nil
}

func (d *FSDirectory) Remove(name string) error {
	if err := os.Remove(d.full(name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("directory: remove %s: %w: %v", name, ierrors.ErrIO, err)
	}
	return nil
}

// OpenMMap implements MMapDirectory.
func (d *FSDirectory) OpenMMap(name string) ([]byte, io.Closer, error) {
	f, err := os.OpenFile(d.full(name), os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("directory: %s: %w", name, ierrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("directory: open %s: %w: %v", name, ierrors.ErrIO, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("directory: stat %s: %w: %v", name, ierrors.ErrIO, err)
	}
	if info.Size() == 0 {
		// A zero-length file cannot be mapped; its contents are empty.
		return []byte{}, f, nil
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("directory: mmap %s: %w: %v", name, ierrors.ErrIO, err)
	}
	return m, &mmapCloser{m: m, f: f}, nil
}

type mmapCloser struct {
	m mmap.MMap
	f *os.File
}

func (c *mmapCloser) Close() error {
	err1 := c.m.Unmap()
	err2 := c.f.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
