package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/alnah/go-blogmark"
)

// maxStdinSize bounds markdown read from standard input.
const maxStdinSize = 10 << 20

// fileResult holds the outcome of processing a single file.
type fileResult struct {
	InputPath   string
	OutputPath  string
	Diagnostics []blogmark.Diagnostic
	Bytes       int
	Err         error
	Duration    time.Duration
}

// fileFunc processes one file.
type fileFunc func(ctx context.Context, path string) fileResult

// processBatch runs fn over files with a bounded worker pool. Results keep
// the order of files; a failure in one file does not stop the others.
func processBatch(ctx context.Context, files []string, workers int, fn fileFunc) []fileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))
	results := make([]fileResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = fileResult{InputPath: files[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = runFile(ctx, files[idx], fn)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// runFile times fn and turns a panic into a per-file error.
func runFile(ctx context.Context, path string, fn fileFunc) (result fileResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = fileResult{InputPath: path, Err: fmt.Errorf("internal error: %v", r)}
		}
		result.Duration = time.Since(start)
	}()
	return fn(ctx, path)
}

// readMarkdown reads an input file, or standard input for "-".
func readMarkdown(path string, env *Environment) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(io.LimitReader(env.Stdin, maxStdinSize+1))
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
		}
		if len(data) > maxStdinSize {
			return "", fmt.Errorf("%w: stdin exceeds %d bytes", ErrReadMarkdown, maxStdinSize)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided or discovered path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// summary holds the count of succeeded and failed files.
type summary struct {
	Succeeded int
	Failed    int
	Bytes     int
	Errors    int
	Warnings  int
}

// summarize tallies results.
func summarize(results []fileResult) summary {
	var s summary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.Bytes += r.Bytes
		for _, d := range r.Diagnostics {
			if d.Severity == blogmark.SeverityError {
				s.Errors++
			} else {
				s.Warnings++
			}
		}
	}
	return s
}
