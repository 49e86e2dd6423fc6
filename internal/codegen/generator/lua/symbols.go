package lua

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/common"
	"github.com/dfhack/luastubs/internal/codegen/layout"
)

func generateSymbols(logger *slog.Logger, outputDir string, res *layout.Result) error {
	logger.Debug("Generating symbols.lua", "declarations", len(res.Decls))
	return writeFile(logger, filepath.Join(outputDir, "symbols.lua"), renderSymbols(res))
}

func renderSymbols(res *layout.Result) []byte {
	var b strings.Builder
	b.WriteString(common.FileHeader)
	for _, d := range res.Decls {
		switch d := d.(type) {
		case *layout.Class:
			renderClass(&b, d)
		case *layout.Enum:
			renderEnum(&b, d)
		case *layout.Global:
			renderGlobal(&b, d)
		}
	}
	return []byte(b.String())
}

func renderClass(b *strings.Builder, c *layout.Class) {
	if c.Doc != "" {
		b.WriteString("--[[" + c.Doc + "\n]]\n")
	}
	if c.Union {
		b.WriteString("-- union\n")
	}
	b.WriteString("---@class " + c.Name)
	if c.Base != "" {
		b.WriteString(": " + c.Base)
	}
	b.WriteString(c.Comment + "\n")

	if c.Defaults.Has(layout.DefaultsContainer) {
		b.WriteString("---@field [integer] " + c.Index + "\n")
		b.WriteString(strings.ReplaceAll(containerMethods, "<ELEMENT>", c.Index))
	}
	for _, f := range c.Fields {
		b.WriteString("---@field " + f.Name + " " + f.Type + count(f.Count) + f.Comment)
		if f.Untyped {
			b.WriteString(" -- NOT TYPED")
		}
		b.WriteString("\n")
	}
	for _, m := range c.Methods {
		b.WriteString("---@field " + m.Name + " " + m.Type + m.Comment + "\n")
	}
	if c.Find {
		b.WriteString(findMethod)
	}

	if c.Defaults.Has(layout.DefaultsBase) {
		b.WriteString(baseMethods)
	}
	if c.Defaults.Has(layout.DefaultsStruct) {
		b.WriteString(structMethods)
	}
	if c.Defaults.Has(layout.DefaultsNamed) {
		b.WriteString(namedTypeMethods)
	}
	if c.Defaults.Has(layout.DefaultsTyped) {
		b.WriteString(typedObjectMethods)
	}
	b.WriteString("df." + c.Name + " = nil\n\n")
}

func renderEnum(b *strings.Builder, e *layout.Enum) {
	b.WriteString("---@enum " + e.Name + e.Comment + "\n")
	b.WriteString("df." + e.Name + " = {\n")
	for _, it := range e.Items {
		fmt.Fprintf(b, "    %s = %d,", it.Name, it.Index)
		if it.Comment != "" {
			b.WriteString(" --" + it.Comment)
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")

	if len(e.Attrs) > 0 {
		attrs := make([]string, 0, len(e.Attrs))
		for _, a := range e.Attrs {
			attrs = append(attrs, a.Name+": "+a.Type)
		}
		fmt.Fprintf(b, "---@type { [%s]: { %s } }\n", e.Name, strings.Join(attrs, ", "))
		b.WriteString("df." + e.Name + ".attrs = nil\n")
	}
	b.WriteString("\n")
}

func renderGlobal(b *strings.Builder, g *layout.Global) {
	b.WriteString("---@type " + g.Type + count(g.Count) + g.Comment + "\n")
	b.WriteString("df." + g.Name + " = nil\n\n")
}
