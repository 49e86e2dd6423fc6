// Package registry builds the two name sets every naming decision depends
// on: declared type names and declared global singleton names.
//
// The scan is textual. It runs over the raw structure documents before any
// of them is parsed as a tree, and the result is read-only afterwards.
package registry

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/dfhack/luastubs/internal/codegen/schema"
)

var (
	typeDeclPattern   = regexp.MustCompile(`<(?:struct|class|enum)-type\b[^>]*?\stype-name=['"]([^'"]+)['"]`)
	globalDeclPattern = regexp.MustCompile(`<global-object\b[^>]*?\sname=['"]([^'"]+)['"]`)
)

// Registry holds REGULAR_TYPES and GLOBAL_OBJECTS.
type Registry struct {
	types   map[string]struct{}
	globals map[string]struct{}
}

// New returns a registry over explicit name lists.
func New(types, globals []string) *Registry {
	r := &Registry{
		types:   make(map[string]struct{}, len(types)),
		globals: make(map[string]struct{}, len(globals)),
	}
	for _, t := range types {
		r.types[t] = struct{}{}
	}
	for _, g := range globals {
		r.globals[g] = struct{}{}
	}
	return r
}

// Build scans every *.xml document in dir. A missing directory is an error;
// it is the only fatal input condition of a run.
func Build(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema directory %s: not a directory", dir)
	}

	files, err := schema.XMLFiles(dir)
	if err != nil {
		return nil, err
	}

	r := New(nil, nil)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		r.scan(data)
	}
	return r, nil
}

func (r *Registry) scan(data []byte) {
	for _, m := range typeDeclPattern.FindAllSubmatch(data, -1) {
		r.types[string(m[1])] = struct{}{}
	}
	for _, m := range globalDeclPattern.FindAllSubmatch(data, -1) {
		r.globals[string(m[1])] = struct{}{}
	}
}

// IsType reports whether name is a declared struct, class or enum.
func (r *Registry) IsType(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.types[name]
	return ok
}

// IsGlobal reports whether name is a declared global object.
func (r *Registry) IsGlobal(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.globals[name]
	return ok
}

// Types returns the declared type names, sorted.
func (r *Registry) Types() []string { return sortedKeys(r.types) }

// Globals returns the declared global object names, sorted.
func (r *Registry) Globals() []string { return sortedKeys(r.globals) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
