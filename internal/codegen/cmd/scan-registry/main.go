package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/dfhack/luastubs/internal/codegen/registry"
)

func main() {
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	reg, err := registry.Build(filepath.Join(projectRoot, "library", "xml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build registry: %v\n", err)
		os.Exit(1)
	}

	output, err := json.Marshal(struct {
		Types   []string `json:"types"`
		Globals []string `json:"globals"`
	}{reg.Types(), reg.Globals()}, jsontext.WithIndent("  "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
