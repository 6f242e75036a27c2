// Package batch expands a glob into conversion jobs and runs them with a
// bounded number of concurrent ffmpeg processes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vidtools/internal/fileutil"
	"vidtools/internal/services"
)

// Item is one file to convert.
type Item struct {
	Input  string
	Output string
	// Skip explains why the item will not run; empty means it will.
	Skip string
}

// Result is the outcome of one item.
type Result struct {
	Item
	Err     error
	Elapsed time.Duration
}

// Succeeded reports whether the item ran without error.
func (r Result) Succeeded() bool { return r.Skip == "" && r.Err == nil }

// Options describes a batch.
type Options struct {
	// Pattern is a filepath.Glob pattern selecting inputs.
	Pattern string
	// Format is the target extension without the dot.
	Format string
	// OutputDir receives outputs; empty writes next to each input.
	OutputDir string
}

// Plan expands the pattern into items sorted by input path. Directories are
// ignored and the output directory is created when set.
func Plan(opts Options) ([]Item, error) {
	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(opts.Format)), ".")
	if format == "" {
		return nil, services.Validation("batch", "output format is required")
	}
	if strings.TrimSpace(opts.Pattern) == "" {
		return nil, services.Validation("batch", "input pattern is required")
	}
	matches, err := filepath.Glob(opts.Pattern)
	if err != nil {
		return nil, services.Validation("batch", "invalid pattern %q: %v", opts.Pattern, err)
	}
	sort.Strings(matches)

	var items []Item
	for _, input := range matches {
		if !fileutil.IsRegularFile(input) {
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		dir := filepath.Dir(input)
		if opts.OutputDir != "" {
			dir = opts.OutputDir
		}
		item := Item{Input: input, Output: filepath.Join(dir, stem+"."+format)}
		if fileutil.SamePath(item.Input, item.Output) {
			item.Skip = "already in target format"
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "batch", "", fmt.Sprintf("no files match %q", opts.Pattern), nil)
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "batch", "", "create output directory", err)
		}
	}
	return items, nil
}

// Func converts one item.
type Func func(ctx context.Context, item Item) error

// Run converts items with at most jobs running at once. A failing item does
// not stop the others; cancelling ctx does. onDone, when set, is called as
// each item finishes (serialized). Results keep the order of items.
func Run(ctx context.Context, items []Item, jobs int, convert Func, onDone func(Result)) ([]Result, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]Result, len(items))
	var mu sync.Mutex
	report := func(i int, r Result) {
		mu.Lock()
		defer mu.Unlock()
		results[i] = r
		if onDone != nil {
			onDone(r)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, item := range items {
		if item.Skip != "" {
			report(i, Result{Item: item})
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			err := convert(gctx, item)
			report(i, Result{Item: item, Err: err, Elapsed: time.Since(started)})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return results, services.Wrap(services.ErrExternalTool, "batch", "", fmt.Sprintf("%d of %d conversions failed", failed, len(items)), nil)
	}
	return results, nil
}
