package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"vidtools/internal/batch"
	"vidtools/internal/ops"
	"vidtools/internal/presets"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var jobs int
	var presetName string

	cmd := &cobra.Command{
		Use:   "batch PATTERN FORMAT",
		Short: "Convert every file matching a glob pattern",
		Long: "Batch converts each file matching PATTERN to FORMAT, writing <name>.<format> next to the source or into --output-dir.\n" +
			"Quote the pattern so the shell does not expand it.",
		Example: "  vt batch '*.mov' mp4 -o converted -j 2\n  vt batch 'clips/*.mp4' webm --preset webm_social_media",
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := batch.Plan(batch.Options{Pattern: args[0], Format: args[1], OutputDir: outputDir})
			if err != nil {
				return err
			}

			var preset *presets.Preset
			name := strings.TrimSpace(presetName)
			if name != "" {
				store, err := ctx.presetStore()
				if err != nil {
					return err
				}
				p, err := store.Get(name)
				if err != nil {
					return err
				}
				preset = &p
			}

			out := &syncWriter{w: cmd.OutOrStdout()}
			reporter := ctx.defaultReporter(cmd.ErrOrStderr())
			if jobs > 1 {
				reporter = nil
			}
			convert := func(runCtx context.Context, item batch.Item) error {
				op, err := batchOperation(item, args[1], preset)
				if err != nil {
					return err
				}
				_, err = ctx.runJob(runCtx, jobRequest{op: op, preset: name, out: out, reporter: reporter})
				return err
			}

			colorize := shouldColorize(cmd.OutOrStdout())
			dryRun := ctx.dryRun()
			results, runErr := batch.Run(commandCtx(cmd), items, jobs, convert, func(r batch.Result) {
				if dryRun && r.Err == nil && r.Skip == "" {
					return
				}
				out.println(batchLine(r, colorize))
			})
			if !dryRun {
				out.println(batchSummary(results))
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for converted files (default: next to each input)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Number of conversions to run in parallel")
	cmd.Flags().StringVar(&presetName, "preset", "", "Apply this preset instead of a plain conversion")
	return cmd
}

func batchOperation(item batch.Item, format string, preset *presets.Preset) (ops.Operation, error) {
	if preset != nil {
		return preset.Build(item.Input, item.Output)
	}
	return ops.ConvertOptions{Input: item.Input, Output: item.Output, Format: format}, nil
}

func batchLine(r batch.Result, colorize bool) string {
	switch {
	case r.Skip != "":
		return fmt.Sprintf("- %s: skipped (%s)", r.Input, r.Skip)
	case r.Err != nil:
		return fmt.Sprintf("%s %s: %v", checkMark(false, colorize), r.Input, r.Err)
	default:
		return fmt.Sprintf("%s %s -> %s (%s)", checkMark(true, colorize), r.Input, r.Output, r.Elapsed.Round(100*time.Millisecond))
	}
}

func batchSummary(results []batch.Result) string {
	var ok, failed, skipped int
	for _, r := range results {
		switch {
		case r.Skip != "":
			skipped++
		case r.Err != nil:
			failed++
		case r.Input != "":
			ok++
		}
	}
	summary := fmt.Sprintf("Converted %d of %d files", ok, len(results))
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	if skipped > 0 {
		summary += fmt.Sprintf(", %d skipped", skipped)
	}
	return summary
}

// syncWriter serializes writes from parallel jobs.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) println(line string) {
	fmt.Fprintln(s, line)
}
