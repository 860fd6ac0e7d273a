package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/alnah/go-blogmark"
	"github.com/alnah/go-blogmark/internal/fileutil"
	"github.com/alnah/go-blogmark/internal/hints"
)

// runRender compiles one entry to stdout or a file, or a directory of
// entries to HTML files.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: render takes one input, got %d", ErrUsage, len(positional))
	}

	cfg, compiler, ec, err := setup(&flags.common, env)
	if err != nil {
		return err
	}
	inputs, err := resolveInputs(positional, cfg)
	if err != nil {
		return err
	}
	input := inputs[0]

	if input == "-" {
		return renderSingle(ctx, compiler, input, flags, env)
	}
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	if !info.IsDir() {
		if !fileutil.IsMarkdown(input) {
			return fmt.Errorf("%w: %s", fileutil.ErrNotMarkdown, input)
		}
		return renderSingle(ctx, compiler, input, flags, env)
	}

	files, err := fileutil.FindMarkdown(input)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdownFiles, input)
	}

	workers := resolveWorkers(flags.workers, ec.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Rendering %s with %s\n",
			english.Plural(len(files), "file", ""), english.Plural(workers, "worker", ""))
	}

	start := env.Now()
	results := processBatch(ctx, files, workers, func(ctx context.Context, path string) fileResult {
		return renderFile(ctx, compiler, path, fileutil.OutputPath(path, input, flags.output), env)
	})
	return reportRender(results, flags, env, env.Now().Sub(start))
}

// renderSingle writes one entry to -o or stdout.
func renderSingle(ctx context.Context, c *blogmark.Compiler, input string, flags *renderFlags, env *Environment) error {
	md, err := readMarkdown(input, env)
	if err != nil {
		return err
	}
	res, err := c.Render(ctx, md)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if flags.lint {
		printDiagnostics(env.Stderr, input, res.Diagnostics)
	}

	if flags.output == "" {
		fmt.Fprintln(env.Stdout, res.HTML)
		return nil
	}
	if err := fileutil.WriteFile(flags.output, []byte(res.HTML+"\n")); err != nil {
		return fmt.Errorf("%w: %w%s", ErrWriteHTML, err, hints.ForOutputDirectory())
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// renderFile processes a single file of a batch.
func renderFile(ctx context.Context, c *blogmark.Compiler, input, output string, env *Environment) fileResult {
	result := fileResult{InputPath: input, OutputPath: output}

	md, err := readMarkdown(input, env)
	if err != nil {
		result.Err = err
		return result
	}
	result.Bytes = len(md)

	res, err := c.Render(ctx, md)
	if err != nil {
		result.Err = err
		return result
	}
	result.Diagnostics = res.Diagnostics

	if err := fileutil.WriteFile(output, []byte(res.HTML+"\n")); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrWriteHTML, err)
	}
	return result
}

// reportRender prints batch results and returns ErrBatchFailed when any file failed.
func reportRender(results []fileResult, flags *renderFlags, env *Environment, elapsed time.Duration) error {
	s := summarize(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if flags.lint {
			printDiagnostics(env.Stderr, r.InputPath, r.Diagnostics)
		}
		if flags.common.quiet {
			continue
		}
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n", r.InputPath, r.OutputPath,
				humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Microsecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !flags.common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%s succeeded, %s failed", humanize.Comma(int64(s.Succeeded)), humanize.Comma(int64(s.Failed)))
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, " (%s in %v)", humanize.Bytes(uint64(s.Bytes)), elapsed.Round(time.Millisecond))
		}
		fmt.Fprintln(env.Stdout)
	}

	if s.Failed > 0 {
		return fmt.Errorf("%w: %s", ErrBatchFailed, english.Plural(s.Failed, "file", ""))
	}
	return nil
}
