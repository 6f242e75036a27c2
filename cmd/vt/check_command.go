package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidtools/internal/deps"
	"vidtools/internal/preflight"
	"vidtools/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "check",
		Short:       "Report external dependencies and state directories",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{"skipBinaryCheck": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(commandCtx(cmd), cfg)
			lines := renderSectionHeader("Dependencies", colorize)
			lines = append(lines, dependencyLines(statuses, colorize)...)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("State", colorize)...)
			checks := preflight.RunAll(cfg)
			failed := 0
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
					failed++
				}
				lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			missing := deps.MissingRequired(statuses)
			if len(missing) > 0 || failed > 0 {
				names := make([]string, 0, len(missing))
				for _, m := range missing {
					names = append(names, m.Name)
				}
				detail := fmt.Sprintf("%d required dependencies missing, %d state checks failed", len(missing), failed)
				if len(names) > 0 {
					detail += " (" + strings.Join(names, ", ") + ")"
				}
				return services.Wrap(services.ErrConfiguration, "check", "", detail, nil)
			}
			return nil
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses))
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Path != "" {
				message = fmt.Sprintf("Ready (%s)", dep.Path)
			}
			if dep.Version != "" {
				message += " version " + dep.Version
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
			detail += " (optional)"
		}
		if dep.Description != "" {
			detail += "; " + dep.Description
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
	}
	return lines
}
