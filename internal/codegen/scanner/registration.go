package scanner

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/common"
)

// Kind is the registration shape an entry was found in.
type Kind string

const (
	KindWRAPM       Kind = "WRAPM"
	KindWRAPN       Kind = "WRAPN"
	KindCWRAP       Kind = "CWRAP"
	KindLFUNC       Kind = "LFUNC"
	KindWRAP        Kind = "WRAP"
	KindForceExpose Kind = "FORCE_EXPOSE"
)

// Entry is one exported native function.
type Entry struct {
	Kind      Kind       `json:"kind"`
	Module    string     `json:"module"`              // empty for the core namespace
	Name      string     `json:"name"`                // exported name
	Override  string     `json:"override,omitempty"`  // inline <expose> header
	Header    string     `json:"header,omitempty"`    // header text used for decoding
	Signature *Signature `json:"signature,omitempty"` // nil when not found or not decodable
	Verbatim  bool       `json:"verbatim"`            // Name is already fully qualified
}

// RegistrationStats counts extraction outcomes.
type RegistrationStats struct {
	Total    int
	Found    int
	Decoded  int
	NotFound int
}

var (
	moduleArrayPattern = regexp.MustCompile(`dfhack_\w*module\[\](?s:.)*?NULL,\s?NULL\s?\}\n\}`)
	funcsArrayPattern  = regexp.MustCompile(`dfhack_\w*funcs\[\](?s:.)*?NULL,\s?NULL\s?\}\n\}`)
	forceExposePattern = regexp.MustCompile(`//\s?<force-expose>\s?(.+)`)
)

const exposeSuffix = `(?:[ \t]*//[ \t]*<expose>[ \t]*(.*))?`

// registrationShape is one macro or table-item form. name and module are
// submatch indexes; module 0 means the module comes from the array name.
type registrationShape struct {
	kind    Kind
	pattern *regexp.Regexp
	module  int
	name    int
}

var registrationShapes = []registrationShape{
	{KindWRAPM, regexp.MustCompile(`\bWRAPM\((\w+),\s*(\w+)\),` + exposeSuffix), 1, 2},
	{KindWRAPN, regexp.MustCompile(`\bWRAPN\((\w+),\s*([^)\n]+)\),` + exposeSuffix), 0, 1},
	{KindCWRAP, regexp.MustCompile(`\bCWRAP\((\w+),\s*([^)\n]+)\),` + exposeSuffix), 0, 1},
	{KindLFUNC, regexp.MustCompile(`\{\s"(\w+)",\s(\w+)\s\},` + exposeSuffix), 0, 1},
	{KindWRAP, regexp.MustCompile(`\bWRAP\((\w+)\),` + exposeSuffix), 0, 1},
}

// Registrations extracts exported functions from registration sources.
type Registrations struct {
	index  *SourceIndex
	logger *slog.Logger
	stats  RegistrationStats
}

func NewRegistrations(index *SourceIndex, logger *slog.Logger) *Registrations {
	return &Registrations{index: index, logger: logger}
}

func (r *Registrations) Stats() RegistrationStats { return r.stats }

// Scan returns every entry found in src. Only entries inside registration
// arrays are considered, followed by the force-expose annotations of the
// whole file. Entries whose header cannot be found are counted and logged
// but not returned.
func (r *Registrations) Scan(src string) []Entry {
	var out []Entry
	for _, arrayPattern := range []*regexp.Regexp{moduleArrayPattern, funcsArrayPattern} {
		for _, array := range arrayPattern.FindAllString(src, -1) {
			module := arrayModule(array)
			for _, shape := range registrationShapes {
				for _, m := range shape.pattern.FindAllStringSubmatch(array, -1) {
					if e, ok := r.resolve(shape, module, m); ok {
						out = append(out, e)
					}
				}
			}
		}
	}

	for _, m := range forceExposePattern.FindAllStringSubmatch(src, -1) {
		header := strings.TrimSpace(m[1])
		if header == "" {
			continue
		}
		r.stats.Total++
		r.stats.Found++
		sig, ok := DecodeSignature(header, false)
		if !ok || sig.Name == "" {
			r.logger.Warn("Unable to decode forced signature", "header", header)
			continue
		}
		r.stats.Decoded++
		out = append(out, Entry{
			Kind:      KindForceExpose,
			Name:      sig.Name,
			Header:    header,
			Signature: &sig,
			Verbatim:  true,
		})
	}
	return out
}

func (r *Registrations) resolve(shape registrationShape, arrayMod string, m []string) (Entry, bool) {
	e := Entry{Kind: shape.kind, Module: arrayMod, Name: m[shape.name]}
	if shape.module > 0 {
		e.Module = m[shape.module]
	}
	if (shape.kind == KindWRAPM || shape.kind == KindWRAPN) && strings.ContainsAny(m[1]+m[2], "{}") {
		return Entry{}, false
	}
	r.stats.Total++

	e.Override = strings.TrimSpace(m[len(m)-1])
	e.Header = e.Override
	if e.Header == "" && r.index != nil {
		e.Header, _ = r.index.FindSignature(e.Module, e.Name)
	}
	if e.Header == "" {
		r.stats.NotFound++
		r.logger.Warn("Unable to find signature", "module", e.Module, "function", e.Name)
		return Entry{}, false
	}
	r.stats.Found++

	if sig, ok := DecodeSignature(e.Header, true); ok {
		e.Signature = &sig
		r.stats.Decoded++
	}
	return e, true
}

// arrayModule derives the module name from a registration array such as
// `dfhack_job_module[]` (Job). The core array yields "".
func arrayModule(array string) string {
	fields := strings.Fields(array)
	if len(fields) == 0 {
		return ""
	}
	name := fields[0]
	for _, s := range []string{"dfhack", "module[]", "funcs[]", "_"} {
		name = strings.ReplaceAll(name, s, "")
	}
	return common.ModuleName(name)
}
