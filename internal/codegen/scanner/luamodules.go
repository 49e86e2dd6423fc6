package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// GlobalLuaModule owns definitions of files that do not declare a module.
const GlobalLuaModule = "_global"

// LuaField is one member of a scanned Lua module.
type LuaField struct {
	Doc  string `json:"doc,omitempty"` // comment text preceding the definition
	Name string `json:"name"`
	Type string `json:"type"` // "fun(a: T): R" for functions
}

// LuaModule is a module table or a class defined inside one.
type LuaModule struct {
	Name   string     `json:"name"`
	Fields []LuaField `json:"fields"`
}

var (
	mkmodulePattern    = regexp.MustCompile(`(?m)^local\s_ENV\s=\smkmodule\(['"](.+)['"]\)\n`)
	luaFunctionPattern = regexp.MustCompile(`(?m)((?:^--\s.+\n)*)((?:^---@.+\n)*)^function\s([\w:.]+)\((.*)\)`)
	luaVariablePattern = regexp.MustCompile(`(?m)((?:^--\s.+\n)*)^(\w+)\s=.*\n`)
)

// LuaFiles lists the *.lua files below each root in lexical order. Missing
// roots are skipped.
func LuaFiles(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		var found []string
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".lua") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// ParseLuaModule scans one Lua source for top-level functions and
// variables. Functions defined on a local class table are grouped under
// that class; everything else belongs to the module.
func ParseLuaModule(src string, docs Docs) []LuaModule {
	module := GlobalLuaModule
	if m := mkmodulePattern.FindStringSubmatch(src); m != nil {
		module = m[1]
	}

	var order []string
	classes := map[string]*LuaModule{}
	class := func(name string) *LuaModule {
		c, ok := classes[name]
		if !ok {
			c = &LuaModule{Name: name}
			classes[name] = c
			order = append(order, name)
		}
		return c
	}

	for _, m := range luaFunctionPattern.FindAllStringSubmatch(src, -1) {
		doc := commentText(m[1])
		owner, fn, withSelf := SplitName(m[3])

		args := strings.Split(m[4], ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
		ret := "any"
		if m[2] != "" {
			params, r := parseAnnotations(m[2])
			args = params
			if r != "" {
				ret = r
			}
		}
		if withSelf {
			if len(args) == 1 && args[0] == "" {
				args[0] = "self: self"
			} else {
				args = append([]string{"self: self"}, args...)
			}
		}
		if len(args) == 1 && args[0] == "" {
			args = nil
		}

		if d, ok := docs.Lookup(owner, fn); ok {
			doc = d
		}
		if d, ok := docs.Lookup(module, fn); ok {
			doc = d
		}

		target := owner
		if target == "" {
			target = module
		}
		c := class(target)
		c.Fields = append(c.Fields, LuaField{
			Doc:  doc,
			Name: fn,
			Type: "fun(" + strings.Join(args, ", ") + "): " + ret,
		})
	}

	for _, m := range luaVariablePattern.FindAllStringSubmatch(src, -1) {
		name := m[2]
		typ := "any"
		if _, ok := classes[name]; ok {
			typ = name
		}
		c := class(module)
		c.Fields = append(c.Fields, LuaField{Doc: commentText(m[1]), Name: name, Type: typ})
	}

	out := make([]LuaModule, 0, len(order))
	for _, name := range order {
		out = append(out, *classes[name])
	}
	return out
}

// parseAnnotations reads ---@param and ---@return lines in order.
func parseAnnotations(block string) (params []string, ret string) {
	for _, line := range strings.Split(block, "\n") {
		tokens := strings.Split(line, " ")
		switch tokens[0] {
		case "---@param":
			if len(tokens) < 2 {
				continue
			}
			typ := strings.TrimSpace(strings.TrimPrefix(line, "---@param "+tokens[1]))
			params = append(params, tokens[1]+": "+typ)
		case "---@return":
			ret = strings.TrimSpace(strings.TrimPrefix(line, "---@return"))
		}
	}
	return params, ret
}

// commentText joins a block of `-- ` comment lines.
func commentText(block string) string {
	if block == "" {
		return ""
	}
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		lines = append(lines, strings.TrimPrefix(strings.TrimPrefix(l, "--"), " "))
	}
	return strings.Join(lines, "\n")
}
