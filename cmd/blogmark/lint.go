package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/alnah/go-blogmark"
	"github.com/alnah/go-blogmark/internal/fileutil"
)

// lintReport is the JSON form of one file's findings.
type lintReport struct {
	File        string                `json:"file"`
	Error       string                `json:"error,omitempty"`
	Diagnostics []blogmark.Diagnostic `json:"diagnostics"`
}

// runLint checks files and directories against the style rules.
func runLint(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseLintFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if flags.rules {
		printRules(env.Stdout)
		return nil
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, compiler, ec, err := setup(&flags.common, env)
	if err != nil {
		return err
	}
	inputs, err := resolveInputs(positional, cfg)
	if err != nil {
		return err
	}

	var files []string
	for _, in := range inputs {
		if in == "-" {
			files = append(files, in)
			continue
		}
		found, err := fileutil.FindMarkdown(in)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %v", ErrNoMarkdownFiles, inputs)
	}

	workers := resolveWorkers(flags.workers, ec.Workers)
	start := env.Now()
	results := processBatch(ctx, files, workers, func(_ context.Context, path string) fileResult {
		return lintFile(compiler, path, env)
	})
	elapsed := env.Now().Sub(start)

	if flags.json {
		if err := writeJSONReport(env.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
				continue
			}
			printDiagnostics(env.Stdout, r.InputPath, r.Diagnostics)
		}
		if !flags.common.quiet {
			printLintSummary(env.Stdout, summarize(results), flags.common.verbose, elapsed)
		}
	}

	s := summarize(results)
	if s.Failed > 0 {
		return fmt.Errorf("%w: %s", ErrBatchFailed, english.Plural(s.Failed, "file", ""))
	}
	if flags.strict && s.Errors+s.Warnings > 0 {
		return fmt.Errorf("%w: %s", ErrLintFindings, english.Plural(s.Errors+s.Warnings, "problem", ""))
	}
	return nil
}

// lintFile processes a single file of a batch.
func lintFile(c *blogmark.Compiler, path string, env *Environment) fileResult {
	result := fileResult{InputPath: path}
	md, err := readMarkdown(path, env)
	if err != nil {
		result.Err = err
		return result
	}
	result.Bytes = len(md)
	result.Diagnostics, result.Err = c.Lint(md)
	return result
}

// printDiagnostics writes one "file:line:col: severity: reason [rule]" line per finding.
func printDiagnostics(w io.Writer, file string, diags []blogmark.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n", file, d.Line, d.Column, d.Severity, d.Reason, d.RuleID)
	}
}

func printLintSummary(w io.Writer, s summary, verbose bool, elapsed time.Duration) {
	problems := s.Errors + s.Warnings
	files := s.Succeeded + s.Failed
	if problems == 0 {
		fmt.Fprintf(w, "No problems in %s", english.Plural(files, "file", ""))
	} else {
		fmt.Fprintf(w, "%s problems (%s, %s) in %s",
			humanize.Comma(int64(problems)),
			english.Plural(s.Errors, "error", ""),
			english.Plural(s.Warnings, "warning", ""),
			english.Plural(files, "file", ""))
	}
	if verbose {
		fmt.Fprintf(w, " (%s in %v)", humanize.Bytes(uint64(s.Bytes)), elapsed.Round(time.Millisecond))
	}
	fmt.Fprintln(w)
}

func writeJSONReport(w io.Writer, results []fileResult) error {
	reports := make([]lintReport, len(results))
	for i, r := range results {
		reports[i] = lintReport{File: r.InputPath, Diagnostics: r.Diagnostics}
		if r.Err != nil {
			reports[i].Error = r.Err.Error()
		}
		if reports[i].Diagnostics == nil {
			reports[i].Diagnostics = []blogmark.Diagnostic{}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

// printRules lists every lint rule.
func printRules(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range blogmark.Rules() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Severity, r.Summary)
	}
	_ = tw.Flush()
}
