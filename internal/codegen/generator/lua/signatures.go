package lua

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/common"
	"github.com/dfhack/luastubs/internal/codegen/scanner"
)

// signatureFile is the rendered signatures.lua plus what it discovered on
// the way.
type signatureFile struct {
	body    []byte
	modules []string // lowercased namespaces below dfhack, sorted
	unknown []string // unresolved type names, sorted
}

func generateSignatures(logger *slog.Logger, outputDir string, entries []scanner.Entry, docs scanner.Docs) (*signatureFile, error) {
	logger.Debug("Generating signatures.lua", "entries", len(entries))
	sf := renderSignatures(entries, docs)
	if err := writeFile(logger, filepath.Join(outputDir, "signatures.lua"), sf.body); err != nil {
		return nil, err
	}
	return sf, nil
}

func renderSignatures(entries []scanner.Entry, docs scanner.Docs) *signatureFile {
	var b strings.Builder
	b.WriteString(common.FileHeader)

	modules := map[string]struct{}{}
	unknown := map[string]struct{}{}
	for _, e := range entries {
		if sig := e.Signature; sig != nil {
			if mod := discoveredModule(e); mod != "" {
				modules[strings.ToLower(mod)] = struct{}{}
			}
			if sig.Return.Unknown {
				unknown[strings.ReplaceAll(sig.Return.Type, "[]", "")] = struct{}{}
			}
			for _, p := range sig.Params {
				if p.Unknown {
					unknown[strings.ReplaceAll(p.Type, "[]", "")] = struct{}{}
				}
			}
		}
		renderEntry(&b, e, docs)
	}

	sf := &signatureFile{
		modules: common.SortedKeys(modules),
		unknown: common.SortedKeys(unknown),
	}
	if len(sf.unknown) > 0 {
		b.WriteString("-- Unknown types\n")
		for _, t := range sf.unknown {
			b.WriteString("---@alias " + t + " unknown\n")
		}
	}
	sf.body = []byte(b.String())
	return sf
}

// discoveredModule is the dfhack namespace an entry lives in, if any.
func discoveredModule(e scanner.Entry) string {
	if !e.Verbatim {
		return e.Module
	}
	parts := strings.Split(e.Name, ".")
	if len(parts) > 2 && parts[0] == "dfhack" {
		return parts[1]
	}
	return ""
}

func renderEntry(b *strings.Builder, e scanner.Entry, docs scanner.Docs) {
	if d, ok := docs.Lookup(e.Module, e.Name); ok {
		b.WriteString(longComment(d, "\n"))
	}
	fmt.Fprintf(b, "-- CXX SIGNATURE -> `%s`\n", strings.Join(strings.Fields(e.Header), " "))

	sig := e.Signature
	if sig == nil {
		b.WriteString("\n")
		return
	}

	args := make([]string, 0, len(sig.Params))
	documented := true
	for _, p := range sig.Params {
		if p.Vararg {
			args = append(args, "...")
			if documented {
				b.WriteString("---@vararg unknown\n")
				documented = false
			}
			continue
		}
		args = append(args, p.Name)
		if !documented {
			continue
		}
		b.WriteString("---@param " + p.Name)
		if p.Optional() {
			b.WriteString("?")
		}
		b.WriteString(" " + p.Type)
		if p.Unknown {
			b.WriteString(" -- unknown")
		}
		if p.Optional() {
			b.WriteString(" -- default value is " + p.Default)
		}
		b.WriteString("\n")
	}

	b.WriteString("---@return " + sig.Return.Type)
	if sig.Return.Unknown {
		b.WriteString(" -- unknown")
	}
	b.WriteString("\n")

	prefix := "dfhack."
	if e.Verbatim {
		prefix = ""
	}
	module := strings.ToLower(e.Module)
	if module != "" {
		module += "."
	}
	fmt.Fprintf(b, "function %s%s%s(%s) end\n\n", prefix, module, e.Name, strings.Join(args, ", "))
}
