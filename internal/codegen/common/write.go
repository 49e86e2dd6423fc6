package common

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// WriteIfChanged writes data to path unless the file already holds the same
// bytes. It reports whether the file was written.
func WriteIfChanged(logger *slog.Logger, path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(existing) == len(data) && xxh3.Hash128(existing) == xxh3.Hash128(data) {
			logger.Debug("Unchanged", "path", path)
			return false, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	logger.Debug("Wrote", "path", path, "bytes", len(data))
	return true, nil
}

// Digest returns the content digest used to compare generated outputs.
func Digest(data []byte) string {
	h := xxh3.Hash128(data).Bytes()
	return fmt.Sprintf("%x", h[:])
}
