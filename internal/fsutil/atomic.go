// Package fsutil writes workbook files without ever leaving a truncated
// file behind.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Options controls AtomicWrite.
type Options struct {
	// Backup copies an existing file at path to path+".bak" before it is
	// replaced.
	Backup bool
	// Validate, when set, is run on the bytes read back from the temp file
	// before the rename. A validation error aborts the write.
	Validate func(content []byte) error
}

// defaultMode is given to workbooks that did not exist before.
const defaultMode os.FileMode = 0o644

// AtomicWrite writes content to a temp file in path's directory, syncs
// it, optionally validates and backs up, then renames it over path. The
// result keeps the permissions of the file it replaces.
func AtomicWrite(path string, content []byte, opts Options) error {
	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".projman-tmp-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		// No-op once the rename has happened.
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if opts.Validate != nil {
		written, err := os.ReadFile(tmpName)
		if err != nil {
			return fmt.Errorf("read temp file for validation: %w", err)
		}
		if err := opts.Validate(written); err != nil {
			return fmt.Errorf("validating written file: %w", err)
		}
	}

	if opts.Backup {
		if _, err := os.Stat(path); err == nil {
			if err := copyFile(path, path+".bak"); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// WithDefaultExt appends ext when path has no extension.
func WithDefaultExt(path, ext string) string {
	if filepath.Ext(path) == "" {
		return path + ext
	}
	return path
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
