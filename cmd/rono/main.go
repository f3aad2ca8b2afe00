// Command rono is the Rono language's command-line entry point
// (spec.md §6): it resolves a module, runs its chif main, and turns
// any diagnostic into the correct process exit code.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rono-lang/rono/internal/builtin"
	"github.com/rono-lang/rono/internal/config"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/interpreter"
	"github.com/rono-lang/rono/internal/module"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	app := &cli.App{
		Name:    "rono",
		Usage:   "run Rono programs",
		Version: fmt.Sprintf("%s (%s)", version, goVersionString()),
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "resolve and execute a Rono module",
				ArgsUsage: "<file.rono>",
				Action:    runCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand(c *cli.Context) error {
	entry := c.Args().First()
	if entry == "" {
		return cli.Exit("usage: rono run <file.rono>", 2)
	}

	cfg, cfgErr := config.Load(entry)
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "cannot read rono.yaml: %s\n", cfgErr)
		os.Exit(1)
	}

	loader := module.NewLoader(cfg.ImportPaths)
	globals, err := loader.Load(entry)
	if err != nil {
		diagnostics.Report(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}

	registry := builtin.New(os.Stdout, os.Stdin, cfg.HTTPTimeout())
	if err := interpreter.Run(globals, registry, entry); err != nil {
		diagnostics.Report(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	return nil
}

// exitCodeFor maps a diagnostic's phase to a distinct non-zero exit
// code (spec.md §7's phases are ordered lex -> parse -> resolve ->
// runtime; the exit code preserves that ordering so a caller scripting
// against `rono run` can tell which stage failed without parsing
// stderr).
func exitCodeFor(err *diagnostics.Error) int {
	switch err.Phase {
	case diagnostics.Lex:
		return 10
	case diagnostics.Parse:
		return 11
	case diagnostics.Resolve:
		return 12
	case diagnostics.Runtime:
		return 13
	default:
		return 1
	}
}
