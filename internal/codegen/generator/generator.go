package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/common"
	"github.com/dfhack/luastubs/internal/codegen/generator/lua"
	"github.com/dfhack/luastubs/internal/codegen/layout"
	"github.com/dfhack/luastubs/internal/codegen/meta"
	"github.com/dfhack/luastubs/internal/codegen/registry"
	"github.com/dfhack/luastubs/internal/codegen/scanner"
	"github.com/dfhack/luastubs/internal/codegen/schema"
)

// ErrMissingInput is returned when a required input root does not exist.
var ErrMissingInput = errors.New("missing required input")

// Inputs locates the source tree a run reads from.
type Inputs struct {
	Schema        string   // combined layout document
	XMLDir        string   // per-module layout documents
	Registrations []string // native sources holding registration arrays
	SourceRoot    string   // tree searched for definition headers
	Docs          string   // API reference, optional
	LuaRoots      []string // Lua module trees, optional
}

type Generator struct {
	inputs    Inputs
	outputDir string
	luarc     string
	logger    *slog.Logger
}

type LanguageGenerator func(logger *slog.Logger, outputDir string, md *meta.Metadata) error

var generators = map[string]LanguageGenerator{
	"lua": lua.Generate,
}

// Languages lists the supported emitters.
func Languages() []string {
	return common.SortedKeys(generators)
}

// New creates a generator writing stubs to outputDir. luarc is the editor
// workspace config written alongside a freshly created output directory.
func New(inputs Inputs, outputDir, luarc string, logger *slog.Logger) *Generator {
	return &Generator{
		inputs:    inputs,
		outputDir: outputDir,
		luarc:     luarc,
		logger:    logger,
	}
}

func (g *Generator) GenerateLang(lang string) error {
	gen, ok := generators[lang]
	if !ok {
		return fmt.Errorf("unsupported language '%s' (supported: %v)", lang, Languages())
	}

	md, err := g.ScanAll()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(g.outputDir)
	fresh := os.IsNotExist(statErr)

	g.logger.Info("Generating stubs", "language", lang, "output", g.outputDir)
	if err := gen(g.logger, g.outputDir, md); err != nil {
		return fmt.Errorf("generate %s stubs: %w", lang, err)
	}

	if fresh {
		if err := lua.WriteEditorConfig(g.logger, g.outputDir, g.luarc); err != nil {
			return err
		}
	}

	g.logger.Info("Stub generation complete",
		"language", lang,
		"output", g.outputDir,
		"roots", md.Stats.Layout.Roots,
		"skipped", md.Stats.Layout.Skipped,
		"collisions", md.Stats.Layout.Collisions,
		"undeclared", md.Stats.Layout.Undeclared,
		"signatures", md.Stats.Signatures.Total,
		"found", md.Stats.Signatures.Found,
		"decoded", md.Stats.Signatures.Decoded,
		"notFound", md.Stats.Signatures.NotFound)
	return nil
}

func (g *Generator) ScanAll() (*meta.Metadata, error) {
	for _, path := range []string{g.inputs.Schema, g.inputs.XMLDir} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: '%s' (run from the source tree root)", ErrMissingInput, path)
		}
	}

	g.logger.Info("Scanning source tree for metadata")
	md := &meta.Metadata{Docs: scanner.Docs{}}

	g.logger.Debug("Building symbol registry", "dir", g.inputs.XMLDir)
	reg, err := registry.Build(g.inputs.XMLDir)
	if err != nil {
		return nil, fmt.Errorf("failed to build symbol registry: %w", err)
	}
	md.Registry = reg
	g.logger.Info("Built symbol registry", "types", len(reg.Types()), "globals", len(reg.Globals()))

	g.logger.Debug("Loading layout schema", "path", g.inputs.Schema)
	docs, err := schema.Load(g.inputs.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout schema: %w", err)
	}
	md.Layout = layout.NewRenderer(reg, g.logger).Render(docs)
	md.Stats.Layout = md.Layout.Stats
	g.logger.Info("Resolved layout",
		"declarations", len(md.Layout.Decls),
		"enums", md.Layout.Enums.Len(),
		"flattened", md.Layout.Stats.Flattened)

	if g.inputs.Docs != "" {
		md.Docs = g.scanDocs(g.inputs.Docs)
	}

	g.logger.Debug("Indexing native sources", "root", g.inputs.SourceRoot)
	index, err := scanner.NewSourceIndex(g.inputs.SourceRoot, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to index native sources: %w", err)
	}
	regs := scanner.NewRegistrations(index, g.logger)
	for _, path := range g.inputs.Registrations {
		data, err := os.ReadFile(path)
		if err != nil {
			g.logger.Warn("Failed to read registration source", "path", path, "error", err)
			continue
		}
		md.Entries = append(md.Entries, regs.Scan(string(data))...)
	}
	md.Stats.Signatures = regs.Stats()
	g.logger.Info("Extracted native functions",
		"files", len(index.Files()),
		"entries", len(md.Entries),
		"notFound", md.Stats.Signatures.NotFound)

	files, err := scanner.LuaFiles(g.inputs.LuaRoots)
	if err != nil {
		g.logger.Warn("Failed to list Lua modules", "roots", strings.Join(g.inputs.LuaRoots, ","), "error", err)
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			g.logger.Warn("Failed to read Lua module", "path", path, "error", err)
			continue
		}
		md.LuaModules = append(md.LuaModules, scanner.ParseLuaModule(string(data), md.Docs)...)
		md.Stats.LuaFiles++
	}
	g.logger.Info("Scanned Lua modules", "files", md.Stats.LuaFiles, "modules", len(md.LuaModules))

	return md, nil
}

func (g *Generator) scanDocs(path string) scanner.Docs {
	data, err := os.ReadFile(path)
	if err != nil {
		g.logger.Debug("No API reference", "path", path, "error", err)
		return scanner.Docs{}
	}
	docs, err := scanner.ParseDocs(string(data))
	if err != nil {
		g.logger.Warn("Failed to parse API reference", "path", path, "error", err)
		return scanner.Docs{}
	}
	g.logger.Info("Parsed API reference", "functions", len(docs))
	return docs
}
