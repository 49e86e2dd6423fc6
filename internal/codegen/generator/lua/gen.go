// Package lua emits annotation stubs for the Lua language server.
package lua

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dfhack/luastubs/internal/codegen/layout"
	"github.com/dfhack/luastubs/internal/codegen/meta"
)

func Generate(logger *slog.Logger, outputDir string, md *meta.Metadata) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", outputDir, err)
	}

	res := md.Layout
	if res == nil {
		res = &layout.Result{}
	}
	if err := generateSymbols(logger, outputDir, res); err != nil {
		return err
	}

	sigs, err := generateSignatures(logger, outputDir, md.Entries, md.Docs)
	if err != nil {
		return err
	}
	if err := generateDefaults(logger, outputDir, sigs.modules); err != nil {
		return err
	}
	if err := generateModules(logger, outputDir, md.LuaModules); err != nil {
		return err
	}

	logger.Info("Generated Lua stubs",
		"dir", outputDir,
		"declarations", len(res.Decls),
		"functions", len(md.Entries),
		"modules", len(sigs.modules),
		"unknownTypes", len(sigs.unknown))
	return nil
}
