package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidtools/internal/history"
	"vidtools/internal/ops"
)

type historyView struct {
	ID          string     `json:"id"`
	Operation   string     `json:"operation"`
	Status      string     `json:"status"`
	Command     string     `json:"command"`
	Inputs      []string   `json:"inputs"`
	Output      string     `json:"output,omitempty"`
	Preset      string     `json:"preset,omitempty"`
	ExitCode    *int       `json:"exit_code,omitempty"`
	Error       string     `json:"error,omitempty"`
	OutputBytes int64      `json:"output_bytes,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	historyCmd := &cobra.Command{
		Use:         "history",
		Short:       "Show recently run jobs",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{"skipBinaryCheck": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Job history is disabled (history.enabled = false)")
				return nil
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.History.Limit
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(commandCtx(cmd), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				views := make([]historyView, 0, len(entries))
				for _, e := range entries {
					views = append(views, newHistoryView(e))
				}
				return writeJSON(cmd, views)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					humanize.Time(e.StartedAt),
					ops.Title(e.Operation),
					historyStatus(e),
					historyElapsed(e),
					valueOr(e.Output, "-"),
					historySize(e),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{textCol("Started"), textCol("Operation"), textCol("Status"), numCol("Elapsed"), textCol("Output"), numCol("Size")},
				rows,
			))
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of jobs to show (default from history.limit)")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output jobs as JSON")

	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded jobs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()
			removed, err := store.Clear(commandCtx(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s) from history\n", removed)
			return nil
		},
	}
}

func newHistoryView(e history.Entry) historyView {
	view := historyView{
		ID:          e.ID,
		Operation:   e.Operation,
		Status:      string(e.Status),
		Command:     e.Command,
		Inputs:      e.Inputs,
		Output:      e.Output,
		Preset:      e.Preset,
		ExitCode:    e.ExitCode,
		Error:       e.ErrorMessage,
		OutputBytes: e.OutputBytes,
		StartedAt:   e.StartedAt,
	}
	if !e.FinishedAt.IsZero() {
		finished := e.FinishedAt
		view.FinishedAt = &finished
	}
	return view
}

func historyStatus(e history.Entry) string {
	if e.Status == history.StatusFailed && e.ExitCode != nil {
		return fmt.Sprintf("%s (exit %d)", e.Status, *e.ExitCode)
	}
	return string(e.Status)
}

func historyElapsed(e history.Entry) string {
	elapsed := e.Elapsed()
	if elapsed <= 0 {
		return "-"
	}
	return elapsed.Round(100 * time.Millisecond).String()
}

func historySize(e history.Entry) string {
	if e.OutputBytes <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(e.OutputBytes))
}
