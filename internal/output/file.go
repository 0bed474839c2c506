package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileError represents a failure writing an export file
type FileError struct {
	Op   string // "mkdir", "open", "write"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// File is an append-only export file. Nothing touches the disk until the
// first non-empty block is written; that write creates parent directories
// and truncates any previous file at the same path.
type File struct {
	path    string
	stats   *Stats
	offset  int64
	created bool
}

// NewFile returns a File for path. stats may be nil.
func NewFile(path string, stats *Stats) *File {
	return &File{path: path, stats: stats}
}

// Path returns the absolute path of the file
func (f *File) Path() string {
	return f.path
}

// Empty reports whether nothing has been written yet
func (f *File) Empty() bool {
	return f.offset == 0
}

// Size returns the number of bytes written so far
func (f *File) Size() int64 {
	return f.offset
}

// WriteBlock appends block to the file. An empty block is a no-op.
func (f *File) WriteBlock(block []byte) error {
	if len(block) == 0 {
		return nil
	}

	handle, err := f.open()
	if err != nil {
		return err
	}
	n, err := handle.Write(block)
	f.offset += int64(n)
	if f.stats != nil {
		f.stats.IncrementBytes(n)
	}
	if err != nil {
		_ = handle.Close()
		return &FileError{Op: "write", Path: f.path, Err: err}
	}
	if err := handle.Close(); err != nil {
		return &FileError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

func (f *File) open() (*os.File, error) {
	if f.created {
		handle, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return nil, &FileError{Op: "open", Path: f.path, Err: err}
		}
		return handle, nil
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return nil, &FileError{Op: "mkdir", Path: f.path, Err: err}
	}
	handle, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &FileError{Op: "open", Path: f.path, Err: err}
	}
	f.created = true
	if f.stats != nil {
		f.stats.IncrementFiles()
	}
	return handle, nil
}
