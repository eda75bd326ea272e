package fiber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sanonone/fibermap/pkg/metrics"
)

// WriteFile encodes fs and persists it at path.
// The data goes to a temporary file in the same directory which is then renamed
// over path, so a failed write never leaves a truncated Fibers.bin behind.
func WriteFile(ctx context.Context, path string, fs FiberSet) error {
	buf, err := Encode(fs)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrIO, err)
	}
	tmpName := tmp.Name()

	// 1. Write + fsync
	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: sync %s: %v", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrIO, path, err)
	}

	// 2. Atomic replace
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", ErrIO, path, err)
	}

	metrics.CodecBytesTotal.WithLabelValues("encode").Add(float64(len(buf)))
	return nil
}

// ReadFile loads and decodes the Fibers.bin at path.
func ReadFile(ctx context.Context, path string) (FiberSet, error) {
	return Load(ctx, FileLoader{}, path)
}
