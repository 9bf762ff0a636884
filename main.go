package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asmteach/asm15/assembler"
	"github.com/asmteach/asm15/config"
	"github.com/asmteach/asm15/tools"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		configPath  = flag.String("config", "", "Path to a config.toml (default: platform config directory)")
		lint        = flag.Bool("lint", false, "Run advisory lint checks after a successful assembly")
		verbose     = flag.Bool("v", false, "Verbose progress output")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("asm15 %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	exitCode := 0
	for _, arg := range flag.Args() {
		if !assembleOne(arg, cfg, *lint, *verbose) {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// assembleOne runs the full pipeline for one source file argument, printing
// diagnostics to stderr. It returns false if assembly failed.
func assembleOne(arg string, cfg *config.Config, lint, verbose bool) bool {
	baseName := strings.TrimSuffix(arg, filepath.Ext(arg))
	if filepath.Ext(arg) != "" && filepath.Ext(arg) != ".as" {
		fmt.Fprintf(os.Stderr, "Error: %s: expected a .as source file\n", arg)
		return false
	}

	if verbose {
		fmt.Printf("Assembling %s.as\n", baseName)
	}

	result, err := assembler.Run(baseName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return false
	}

	if result.FirstPass != nil && result.FirstPass.Errors.HasErrors() {
		fmt.Fprint(os.Stderr, result.FirstPass.Errors.Error())
		return false
	}
	if result.SecondPass != nil {
		if result.SecondPass.Errors.HasErrors() {
			fmt.Fprint(os.Stderr, result.SecondPass.Errors.Error())
			return false
		}
		for _, w := range result.SecondPass.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	}

	if verbose && result.Ran {
		fmt.Printf("  IC=%d DC=%d symbols=%d externals=%d\n",
			result.FirstPass.FinalIC, result.FirstPass.FinalDC,
			len(result.FirstPass.Symbols.All()), len(result.SecondPass.Externals))
	}

	if lint && result.Ran {
		runLint(baseName, cfg)
	}

	if !result.Ran {
		fmt.Fprintf(os.Stderr, "%s: assembly did not complete\n", baseName)
		return false
	}
	fmt.Printf("%s: wrote %s.ob\n", baseName, baseName)
	return true
}

func runLint(baseName string, cfg *config.Config) {
	source, err := os.ReadFile(baseName + ".as") // #nosec G304 -- path derived from user-supplied base name
	if err != nil {
		return
	}
	opts := tools.DefaultLintOptions()
	opts.MaxLabelLength = cfg.Limits.MaxLabelLength
	issues := tools.NewLinter(opts).Lint(string(source), baseName+".as")
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue.String())
	}
}

func printHelp() {
	fmt.Printf(`asm15 %s

Usage: asm15 [options] <file.as> [more files...]

A two-pass assembler for the 15-bit-word, 4096-word-address-space
instruction set. Each input is assembled into <base>.ob, plus <base>.ent
if the program declares any entry symbols and <base>.ext if it references
any external symbols.

Options:
  -help         Show this help message
  -version      Show version information
  -config PATH  Load settings from PATH instead of the platform config file
  -lint         Run advisory lint checks after a successful assembly
  -v            Verbose progress output

Examples:
  asm15 program.as
  asm15 -lint -v program.as
  asm15 -config ./asm15.toml a.as b.as
`, Version)
}
