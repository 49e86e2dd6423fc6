package meta

import (
	"github.com/dfhack/luastubs/internal/codegen/layout"
	"github.com/dfhack/luastubs/internal/codegen/registry"
	"github.com/dfhack/luastubs/internal/codegen/scanner"
)

// Metadata holds all scanned information needed for stub generation.
// Shared between generator orchestrator and the language emitter.
type Metadata struct {
	Registry   *registry.Registry
	Layout     *layout.Result
	Entries    []scanner.Entry     // exported native functions in registration order
	Docs       scanner.Docs        // API reference descriptions, may be empty
	LuaModules []scanner.LuaModule // scanned Lua modules in file order
	Stats      Stats
}

// Stats aggregates the recoverable diagnostics of a run.
type Stats struct {
	Layout     layout.Stats
	Signatures scanner.RegistrationStats
	LuaFiles   int
}
