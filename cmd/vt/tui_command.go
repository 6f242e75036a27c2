package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"vidtools/internal/logging"
	"vidtools/internal/ops"
	"vidtools/internal/runner"
	"vidtools/internal/services"
	"vidtools/internal/tui"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Pick operations and fill in their options interactively",
		Long: "tui opens a full-screen menu of operations. Each job runs through the same\n" +
			"pipeline as the command line, including dry-run and job history.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive(cmd.InOrStdin()) {
				return services.Validation("tui", "tui needs an interactive terminal")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := tuiLogger(cfg.Logging.File, cfg.Logging.Level)
			if err != nil {
				return err
			}
			store, err := ctx.presetStore()
			if err != nil {
				return err
			}

			opts := tui.Options{
				Presets: store,
				Run: func(runCtx context.Context, op ops.Operation, preset string, reporter runner.Reporter) (string, error) {
					var dry bytes.Buffer
					job, err := ctx.runJob(runCtx, jobRequest{
						op:       op,
						preset:   preset,
						out:      &dry,
						reporter: func(string) runner.Reporter { return reporter },
						logger:   logger,
					})
					if err != nil {
						return "", err
					}
					if ctx.dryRun() {
						return strings.TrimSpace(dry.String()), nil
					}
					return outputSummary(job.Output), nil
				},
				Info: func(infoCtx context.Context, input string) (string, error) {
					env := ops.NewEnv(cfg, ctx.prober(), nil, logger)
					result, err := ops.Info(infoCtx, env, input)
					if err != nil {
						return "", err
					}
					return renderInfo(input, result), nil
				},
			}
			return tui.Run(commandCtx(cmd), opts)
		},
	}
}

// tuiLogger keeps log lines off the alternate screen: they go to the log file
// when one is configured and are dropped otherwise.
func tuiLogger(file, level string) (*slog.Logger, error) {
	if strings.TrimSpace(file) == "" {
		return logging.NewNop(), nil
	}
	logger, err := logging.New(logging.Options{Level: level, Format: "json", OutputPaths: []string{file}})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "tui", "open log file", "", err)
	}
	return logger, nil
}
