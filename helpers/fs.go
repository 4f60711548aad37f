package helpers

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/liamg/memoryfs"
)

// SharedFS is a read-through cache of source files. Files missing from
// memory are loaded from disk on first access.
type SharedFS struct {
	memfs *memoryfs.FS
}

func NewSharedFS() *SharedFS {
	return &SharedFS{
		memfs: memoryfs.New(),
	}
}

func (sfs *SharedFS) Remove(name string) error {
	return sfs.memfs.Remove(memPath(name))
}

func (sfs *SharedFS) WriteFile(name string, content []byte) error {
	name = memPath(name)
	if err := sfs.memfs.MkdirAll(filepath.Dir(name), 0o700); err != nil {
		return err
	}
	return sfs.memfs.WriteFile(name, content, 0o700)
}

func (sfs *SharedFS) Open(name string) (fs.File, error) {
	file, err := sfs.memfs.Open(memPath(name))
	if err == nil {
		return file, nil
	}

	content, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	if err := sfs.WriteFile(name, content); err != nil {
		return nil, err
	}

	return sfs.memfs.Open(memPath(name))
}

func (sfs *SharedFS) ReadFile(name string) ([]byte, error) {
	file, err := sfs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

// memPath converts an OS path into the slash-separated, unrooted form
// expected by memoryfs.
func memPath(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}

	name = filepath.ToSlash(filepath.Clean(name))
	if vol := filepath.VolumeName(name); len(vol) != 0 {
		name = name[len(vol):]
	}

	for len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}

	if len(name) == 0 {
		return "."
	}
	return name
}
