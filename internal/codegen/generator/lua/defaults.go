package lua

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"text/template"

	"github.com/dfhack/luastubs/internal/codegen/common"
	"github.com/dfhack/luastubs/internal/codegen/scanner"
)

const defaultsTemplate = `{{header}}---@class df
df = nil

---@class global
df.global = nil

---@class dfhack
dfhack = nil
{{range .}}
---@class {{.}}
dfhack.{{.}} = nil
{{end}}
{{glue}}`

const modulesTemplate = `{{header}}{{range .}}---@class {{.Name}}
{{range .Fields}}{{comment .Doc}}---@field {{.Name}} {{.Type}}
{{end}}
{{end}}`

var templateFuncs = template.FuncMap{
	"header":  func() string { return common.FileHeader },
	"glue":    func() string { return modulesGlue },
	"comment": func(doc string) string { return longComment(doc, "") },
}

var (
	defaultsTmpl = template.Must(template.New("defaults").Funcs(templateFuncs).Parse(defaultsTemplate))
	modulesTmpl  = template.Must(template.New("modules").Funcs(templateFuncs).Parse(modulesTemplate))
)

// generateDefaults writes default.lua: the root namespace objects, one class
// per discovered dfhack module and the module loader globals.
func generateDefaults(logger *slog.Logger, outputDir string, modules []string) error {
	logger.Debug("Generating default.lua", "modules", len(modules))
	var buf bytes.Buffer
	if err := defaultsTmpl.Execute(&buf, modules); err != nil {
		return fmt.Errorf("execute defaults template: %w", err)
	}
	return writeFile(logger, filepath.Join(outputDir, "default.lua"), buf.Bytes())
}

// generateModules writes modules.lua from the scanned Lua sources.
func generateModules(logger *slog.Logger, outputDir string, modules []scanner.LuaModule) error {
	logger.Debug("Generating modules.lua", "modules", len(modules))
	var buf bytes.Buffer
	if err := modulesTmpl.Execute(&buf, modules); err != nil {
		return fmt.Errorf("execute modules template: %w", err)
	}
	return writeFile(logger, filepath.Join(outputDir, "modules.lua"), buf.Bytes())
}
