package main

import (
	"fmt"
	"log/slog"
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

	library := filepath.Join(projectRoot, "library")
	index, err := scanner.NewSourceIndex(library, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to index sources: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	regs := scanner.NewRegistrations(index, logger)
	var entries []scanner.Entry
	for _, name := range []string{"LuaApi.cpp", "LuaTools.cpp"} {
		data, err := os.ReadFile(filepath.Join(library, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", name, err)
			os.Exit(1)
		}
		entries = append(entries, regs.Scan(string(data))...)
	}

	output, err := json.Marshal(entries, jsontext.WithIndent("  "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
	fmt.Fprintf(os.Stderr, "%+v\n", regs.Stats())
}
