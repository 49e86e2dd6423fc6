package lua

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/common"
)

// longComment wraps text in a Lua long comment. Embedded `--` sequences are
// dropped so they cannot close the block early.
func longComment(text, ending string) string {
	if text == "" {
		return ""
	}
	text = strings.Trim(text, "-")
	text = strings.Trim(text, "\n")
	text = strings.ReplaceAll(text, "--", "")
	return "--[=[" + text + ending + "]=]\n"
}

func count(dims string) string {
	if dims == "" {
		return ""
	}
	return " count<" + dims + ">"
}

func writeFile(logger *slog.Logger, path string, data []byte) error {
	changed, err := common.WriteIfChanged(logger, path, data)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	logger.Debug("Generated stub file", "path", path, "changed", changed, "digest", common.Digest(data))
	return nil
}
