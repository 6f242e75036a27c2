package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidtools/internal/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "vt",
		Short:         "Video tools built on ffmpeg",
		Long:          "vt assembles ffmpeg command lines for common video chores (resize, cut, convert, crop, rotate, subtitles, concat, sanitize) and runs them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			if shouldSkipBinaryCheck(cmd) {
				return nil
			}
			return ctx.requireFFmpeg()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return services.Wrap(services.ErrValidation, cmd.Name(), "", fmt.Sprintf("%v (see `%s --help`)", err, cmd.CommandPath()), nil)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Print the ffmpeg command instead of running it")
	pf.BoolVarP(&flags.overwrite, "overwrite", "y", false, "Overwrite existing output files")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format override (console, json)")
	pf.BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")

	for _, spec := range operationSpecs() {
		rootCmd.AddCommand(newOperationCommand(ctx, spec))
	}
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newPresetCommand(ctx))
	rootCmd.AddCommand(newBatchCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newTUICommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the vt version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vt %s\n", version)
			return nil
		},
	}
}
