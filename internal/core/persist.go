package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteResult reports the outcome of writing a table to disk. Message is
// empty on success and describes the failure otherwise.
type WriteResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// WriteTableFile writes t as CSV to path and reports the outcome instead of
// returning an error. An existing file is never overwritten.
func WriteTableFile(path string, t *Table) WriteResult {
	err := WriteTable(path, t)
	switch {
	case err == nil:
		return WriteResult{Success: true, Path: path}
	case errors.Is(err, ErrFileExists):
		return WriteResult{Path: path, Message: fmt.Sprintf("File %s already exists", path)}
	case errors.Is(err, ErrPathNotFound):
		return WriteResult{Path: path, Message: fmt.Sprintf("File %s not found", path)}
	default:
		return WriteResult{Path: path, Message: fmt.Sprintf("An error occurred: %v", err)}
	}
}

// linkFile publishes the finished temporary file; replaced in tests.
var linkFile = os.Link

// WriteTable writes t as CSV to path.
//
// The data goes to a temporary file in the same directory first and is
// published with a hard link, which fails if path already exists. Either the
// complete file appears at path or nothing does. The temporary file is
// removed on every path.
//
// The output directory must be on a filesystem that supports hard links.
// FAT volumes and some FUSE or network mounts do not; there every save fails
// with a "publish" error naming the requirement, and nothing is written.
func WriteTable(path string, t *Table) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("write %s: %w", path, ErrFileExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("create in %s: %w", dir, ErrPathNotFound)
		}
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := WriteCSV(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := linkFile(tmpName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("write %s: %w", path, ErrFileExists)
		}
		return fmt.Errorf("publish %s (output directory must support hard links): %w", path, err)
	}
	return nil
}
