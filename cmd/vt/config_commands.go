package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidtools/internal/config"
	"vidtools/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Create or check the vt configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		target    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample config.toml",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			written, err := config.CreateSample(target, overwrite)
			if errors.Is(err, config.ErrConfigExists) {
				return services.Validation("config", "config file already exists at %s (use --overwrite to replace it)", written)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", written)
			fmt.Fprintln(cmd.OutOrStdout(), "Edit it to change encoder defaults, the preset file location, or the ffmpeg binaries.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "path", "p", "", "Destination (default ~/.config/vidtools/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and print the effective settings",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, src, err := config.Load(ctx.flags.configPath)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "directories", "", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", src.Path)
			if !src.Exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, renderDetails("Effective settings", effectiveSettings(cfg)))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func effectiveSettings(cfg *config.Config) [][]string {
	logTarget := "stderr"
	if cfg.Logging.File != "" {
		logTarget += " + " + cfg.Logging.File
	}
	return [][]string{
		{"Preset file", cfg.Paths.PresetFile},
		{"History", fmt.Sprintf("%s (enabled: %s, limit %d)", cfg.Paths.HistoryDB, yesNo(cfg.History.Enabled), cfg.History.Limit)},
		{"ffmpeg", cfg.FFmpegBinary()},
		{"ffprobe", cfg.FFprobeBinary()},
		{"Encoding", fmt.Sprintf("crf %d, preset %s, scale %s", cfg.Encoding.CRF, cfg.Encoding.Preset, cfg.Encoding.ScaleAlgorithm)},
		{"Overwrite outputs", yesNo(cfg.FFmpeg.Overwrite)},
		{"Logging", fmt.Sprintf("%s %s to %s", cfg.Logging.Level, cfg.Logging.Format, logTarget)},
	}
}
