package link

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrFileMove marks a file that could not be moved into the attach
// directory. Per-file, non-fatal: the file is skipped and the run continues.
var ErrFileMove = errors.New("file move failed")

// Move relocates src to dst. A plain rename is tried first; when it fails
// (cross-device sync targets are common) it falls back to copy+sync+remove.
func Move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyBytes(src, dst); err != nil {
		return fmt.Errorf("link: %w: %s: %v", ErrFileMove, src, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("link: %w: remove source %s: %v", ErrFileMove, src, err)
	}
	return nil
}

// CopyBytes copies src to a new file at dst (fsynced, no overwrite). The
// destination is removed again on any failure.
func CopyBytes(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	success = true
	return nil
}
