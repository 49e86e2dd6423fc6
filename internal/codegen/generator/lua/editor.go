package lua

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// libraryConfig is the addon manifest next to the stub library.
type libraryConfig struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// workspaceConfig points the language server at the stub library.
type workspaceConfig struct {
	Library            []string `json:"'workspace.library'"`
	IgnoreDir          []string `json:"'workspace.ignoreDir'"`
	UseGitIgnore       bool     `json:"'workspace.useGitIgnore'"`
	DiagnosticsDisable []string `json:"'diagnostics.disable'"`
}

func marshalConfig(v any) ([]byte, error) {
	data, err := json.Marshal(v, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteEditorConfig writes config.json beside outputDir and, when luarc is
// set, the workspace config referencing outputDir relative to it.
func WriteEditorConfig(logger *slog.Logger, outputDir, luarc string) error {
	lib, err := marshalConfig(libraryConfig{Name: "DFHack Lua", Words: []string{"dfhack"}})
	if err != nil {
		return fmt.Errorf("encode library config: %w", err)
	}
	if err := writeFile(logger, filepath.Join(filepath.Dir(filepath.Clean(outputDir)), "config.json"), lib); err != nil {
		return err
	}
	if luarc == "" {
		return nil
	}

	library := filepath.Clean(outputDir)
	if rel, err := filepath.Rel(filepath.Dir(luarc), outputDir); err == nil {
		library = rel
	}
	ws, err := marshalConfig(workspaceConfig{
		Library:            []string{"./" + filepath.ToSlash(library) + "/"},
		IgnoreDir:          []string{"build"},
		UseGitIgnore:       false,
		DiagnosticsDisable: []string{"lowercase-global"},
	})
	if err != nil {
		return fmt.Errorf("encode workspace config: %w", err)
	}
	logger.Info("Wrote editor configuration", "path", luarc)
	return writeFile(logger, luarc, ws)
}
