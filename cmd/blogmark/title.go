package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/alnah/go-blogmark"
)

// runTitle prints title markup for its arguments, or for every line of
// standard input when there are none.
func runTitle(args []string, env *Environment) error {
	fs := newFlagSet("title", env.Stderr, printTitleUsage)
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	if fs.NArg() > 0 {
		fmt.Fprintln(env.Stdout, blogmark.MarkTitle(strings.Join(fs.Args(), " ")))
		return nil
	}

	sc := bufio.NewScanner(env.Stdin)
	for sc.Scan() {
		fmt.Fprintln(env.Stdout, blogmark.MarkTitle(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
	}
	return nil
}
