package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	preset    string
	assetPath string
	quiet     bool
	verbose   bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	output  string
	workers int
	lint    bool
}

// lintFlags holds all flags for the lint command.
type lintFlags struct {
	common  commonFlags
	workers int
	json    bool
	strict  bool
	rules   bool
}

// astFlags holds all flags for the ast command.
type astFlags struct {
	common   commonFlags
	baseline bool
}

// configFlags holds all flags for the config command.
type configFlags struct {
	common  commonFlags
	presets bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.preset, "preset", "", "preset name (default, relaxed, or custom)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory holding custom presets/")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.lint, "lint", false, "print lint diagnostics to stderr")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseLintFlags parses lint command flags and returns positional args.
func parseLintFlags(args []string, stderr io.Writer) (*lintFlags, []string, error) {
	f := &lintFlags{}
	fs := newFlagSet("lint", stderr, printLintUsage)
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.json, "json", false, "print diagnostics as JSON")
	fs.BoolVar(&f.strict, "strict", false, "exit with code 4 on any finding")
	fs.BoolVar(&f.rules, "rules", false, "list lint rules and exit")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseASTFlags parses ast command flags and returns positional args.
func parseASTFlags(args []string, stderr io.Writer) (*astFlags, []string, error) {
	f := &astFlags{}
	fs := newFlagSet("ast", stderr, printASTUsage)
	fs.BoolVar(&f.baseline, "baseline", false, "show the CommonMark tree before dialect recognition")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, []string, error) {
	f := &configFlags{}
	fs := newFlagSet("config", stderr, printConfigUsage)
	fs.BoolVar(&f.presets, "presets", false, "list built-in presets and exit")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
