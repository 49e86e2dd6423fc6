package cmd

import (
	"log/slog"

	"github.com/dfhack/luastubs/internal/codegen/generator"
)

// Generate is the default command. Every path is relative to the source
// tree root the binary is run from.
type Generate struct {
	Output        string   `help:"Output directory for generated stubs" default:"types/library" env:"LUASTUBS_OUTPUT"`
	Luarc         string   `help:"Editor workspace config written when the output directory is created" default:".luarc.json" env:"LUASTUBS_LUARC"`
	Lang          string   `help:"Target language" default:"lua" enum:"lua" env:"LUASTUBS_LANG"`
	Schema        string   `help:"Combined layout schema document" default:"library/include/df/codegen.out.xml" env:"LUASTUBS_SCHEMA"`
	XMLDir        string   `help:"Directory of per-module layout documents" default:"library/xml" env:"LUASTUBS_XML_DIR"`
	Registrations []string `help:"Native sources holding registration arrays" default:"library/LuaApi.cpp,library/LuaTools.cpp" env:"LUASTUBS_REGISTRATIONS"`
	Sources       string   `help:"Tree searched for native definition headers" default:"library" env:"LUASTUBS_SOURCES"`
	Docs          string   `help:"Lua API reference (optional)" default:"docs/dev/Lua API.rst" env:"LUASTUBS_DOCS"`
	LuaRoots      []string `help:"Lua module trees (optional)" default:"library/lua,plugins/lua" env:"LUASTUBS_LUA_ROOTS"`
}

// Inputs maps the flags onto the generator input layout.
func (g *Generate) Inputs() generator.Inputs {
	return generator.Inputs{
		Schema:        g.Schema,
		XMLDir:        g.XMLDir,
		Registrations: g.Registrations,
		SourceRoot:    g.Sources,
		Docs:          g.Docs,
		LuaRoots:      g.LuaRoots,
	}
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger) error {
	logger.Info("Starting stub generation", "output", g.Output, "lang", g.Lang)
	return generator.New(g.Inputs(), g.Output, g.Luarc, logger).GenerateLang(g.Lang)
}
