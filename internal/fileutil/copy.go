package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCopyMismatch reports a copy whose bytes on disk differ from the source.
var ErrCopyMismatch = errors.New("copy verification failed")

// CopyFile copies src to a new file dst with the source permissions, flushes
// it to disk and reads it back to confirm the content matches. dst must not
// exist and is removed when any step fails.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	want := sha256.New()
	n, err := io.Copy(out, io.TeeReader(in, want))
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if n != info.Size() {
		return fmt.Errorf("%w: copied %d of %d bytes", ErrCopyMismatch, n, info.Size())
	}

	got, err := digest(dst)
	if err != nil {
		return fmt.Errorf("read back copy: %w", err)
	}
	if !bytes.Equal(got, want.Sum(nil)) {
		return fmt.Errorf("%w: %s", ErrCopyMismatch, dst)
	}
	return nil
}

func digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
