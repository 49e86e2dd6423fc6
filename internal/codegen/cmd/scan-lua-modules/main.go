package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/dfhack/luastubs/internal/codegen/scanner"
)

func main() {
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	files, err := scanner.LuaFiles([]string{
		filepath.Join(projectRoot, "library", "lua"),
		filepath.Join(projectRoot, "plugins", "lua"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list Lua files: %v\n", err)
		os.Exit(1)
	}

	var modules []scanner.LuaModule
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", f, err)
			continue
		}
		modules = append(modules, scanner.ParseLuaModule(string(data), nil)...)
	}

	output, err := json.Marshal(modules, jsontext.WithIndent("  "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
