// =============================================================================
// VHDP Linter - Main Entry Point
// =============================================================================
//
// THE PIPELINE:
//   1. Configuration is loaded and checked against its CUE contract
//   2. Every file is parsed on its own (VHDL through the passthrough extractor)
//   3. Each VHDP file is analyzed against the declarations of all others
//   4. Fact tables are built and checked against their CUE contract
//   5. OPA evaluates the project policies over the fact tables
//   6. Findings are reported as file:line:col text or as JSON
//
// WHEN INVESTIGATING FALSE POSITIVES:
//   Run cmd/debug on the file first. Most findings trace back to how a
//   statement was split into segments, not to the rule that fired.
// =============================================================================

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/config"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/passthrough"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/project"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/validator"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		runInit()
		return
	}
	os.Exit(run())
}

func run() int {
	verbose := flag.Bool("v", false, "verbose logging")
	configPath := flag.String("c", "", "config file (default: search from the project root)")
	jsonOut := flag.Bool("json", false, "print results as JSON")
	timing := flag.String("timing", "", "write per-stage timing events (JSONL) to file")
	impact := flag.String("impact", "", "print the files affected by a change to this file")
	clearCache := flag.Bool("clear-cache", false, "remove the analysis cache before linting")
	grammar := flag.String("vhdl-grammar", "", "compiled tree-sitter VHDL grammar for .vhd files (default: pattern extraction)")
	flag.Usage = printUsage
	flag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	path := "."
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	root, only := path, ""
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		root, only = filepath.Dir(path), path
	}

	cfg, err := loadConfig(*configPath, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if *jsonOut {
		cfg.Output.Format = "json"
	}
	if *timing != "" {
		cfg.Output.Timing = *timing
	}

	if *clearCache {
		dir, err := project.ClearCache(root, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		log.Info("cache cleared", zap.String("dir", dir))
	}

	runner := project.New(cfg, log)
	runner.TimingPath = cfg.Output.Timing
	if runner.Extractor, err = passthrough.NewWithGrammar(*grammar); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	result, err := runner.Run(context.Background(), root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if only != "" {
		onlyFile(result, only)
	}

	if cfg.Output.Format == "json" {
		err = project.WriteJSON(os.Stdout, result)
	} else {
		err = project.WriteText(os.Stdout, result)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if *impact != "" {
		fmt.Fprint(os.Stderr, result.Impact(*impact).String())
	}

	if result.HasErrors() {
		return 1
	}
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads the configuration and checks it against its schema.
func loadConfig(path, root string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return nil, err
	}

	v, err := validator.NewConfigValidator()
	if err != nil {
		return nil, fmt.Errorf("initialize config validator: %w", err)
	}
	if err := v.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// onlyFile narrows the report to one file. The whole project is still
// analyzed so that its declarations resolve.
func onlyFile(result *project.Result, file string) {
	abs, _ := filepath.Abs(file)
	same := func(p string) bool {
		a, _ := filepath.Abs(p)
		return a == abs
	}

	diags := result.Diagnostics[:0]
	for _, d := range result.Diagnostics {
		if same(d.File) {
			diags = append(diags, d)
		}
	}
	result.Diagnostics = diags

	var files []project.FileResult
	for _, f := range result.Files {
		if same(f.Path) {
			files = append(files, f)
		}
	}
	result.Files = files
	result.Summary = project.Summary{Files: len(files)}
	for _, f := range files {
		result.Summary.Errors += f.Errors
		result.Summary.Warnings += f.Warnings
		result.Summary.Hints += f.Hints
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: vhdp-lint [command] [options] [path]

Commands:
  init              Create a vhdp_lint.json configuration file
  <path>            Lint the project at path, or one file within it

Options:
  -v                Enable verbose logging
  -c <file>         Use this config file
  -json             Print results as JSON
  -timing <file>    Write timing events (JSONL)
  -impact <file>    Print the files that depend on <file>
  -clear-cache      Remove the analysis cache first
  -vhdl-grammar <lib>
                    Parse .vhd files with this tree-sitter grammar library

Configuration:
  vhdp-lint looks for configuration in:
    1. ./vhdp_lint.json
    2. ./.vhdp_lint.json
    3. <path>/vhdp_lint.json
    4. <path>/.vhdp_lint.json
    5. ~/.config/vhdp_lint/config.json

  Run 'vhdp-lint init' to create a default configuration file.`)
}

func runInit() {
	configPath := "vhdp_lint.json"

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file %s already exists. Overwrite? [y/N]: ", configPath)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("\nEdit this file to configure:")
	fmt.Println("  - Library file patterns")
	fmt.Println("  - Third-party libraries")
	fmt.Println("  - Rule severities (lint.rules)")
	fmt.Println("  - Extra rego policies (policy.dir)")
}
