package main

import (
	"fmt"

	"github.com/k0kubun/pp"
)

// Tree dumps are plain text so they can be diffed and piped.
func init() {
	pp.ColoringEnabled = false
}

// runAST dumps the syntax tree of one entry.
func runAST(args []string, env *Environment) error {
	flags, positional, err := parseASTFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: ast takes exactly one input (use - for stdin)", ErrUsage)
	}

	_, compiler, _, err := setup(&flags.common, env)
	if err != nil {
		return err
	}
	md, err := readMarkdown(positional[0], env)
	if err != nil {
		return err
	}
	root, err := compiler.Tree(md, !flags.baseline)
	if err != nil {
		return fmt.Errorf("%s: %w", positional[0], err)
	}

	if _, err := pp.Fprintln(env.Stdout, root); err != nil {
		return fmt.Errorf("printing tree: %w", err)
	}
	if flags.common.verbose && !flags.baseline {
		fmt.Fprintf(env.Stderr, "passes: %v\n", compiler.Passes())
	}
	return nil
}
