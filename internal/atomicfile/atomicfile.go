// Package atomicfile replaces files via a temporary sibling and rename, so a
// failed write never truncates the destination.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// TempPath returns a unique hidden sibling of path in the same directory.
// Being on the same filesystem keeps the final rename atomic.
func TempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+"."+ulid.Make().String()+".tmp")
}

// Replace calls fill with a temporary path and renames the result over path
// once fill succeeds. The temporary file is removed on any failure.
// Parent directories are created as needed.
func Replace(path string, fill func(tmpPath string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp := TempPath(path)
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmp)
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	success = true
	return nil
}

// WriteFile atomically replaces path with data: temp file, fsync, rename.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return Replace(path, func(tmp string) error {
		f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("write temp file: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return fmt.Errorf("fsync temp file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close temp file: %w", err)
		}
		return nil
	})
}
