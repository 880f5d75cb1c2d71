package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelbuild/internal/history"
)

type historyStageView struct {
	Format  string `json:"format"`
	Stage   string `json:"stage"`
	Outcome string `json:"outcome"`
}

type historyRunView struct {
	ID           string             `json:"id"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   time.Time          `json:"finished_at"`
	Status       string             `json:"status"`
	Formats      []string           `json:"formats"`
	ErrorKind    string             `json:"error_kind,omitempty"`
	ErrorMessage string             `json:"error,omitempty"`
	Stages       []historyStageView `json:"stages"`
}

func historyViews(runs []history.Run) []historyRunView {
	views := make([]historyRunView, 0, len(runs))
	for _, run := range runs {
		stages := make([]historyStageView, 0, len(run.Stages))
		for _, s := range run.Stages {
			stages = append(stages, historyStageView(s))
		}
		views = append(views, historyRunView{
			ID:           run.ID,
			StartedAt:    run.StartedAt,
			FinishedAt:   run.FinishedAt,
			Status:       run.Status,
			Formats:      run.Formats,
			ErrorKind:    run.ErrorKind,
			ErrorMessage: run.ErrorMessage,
			Stages:       stages,
		})
	}
	return views
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent build runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cmd.Context(), cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), historyViews(runs))
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatDuration(run.Duration()),
					run.Status,
					strings.Join(run.Formats, ","),
					historyErrorCell(run),
				})
			}
			headers := []string{"Run", "Started", "Duration", "Status", "Formats", "Error"}
			fmt.Fprintln(out, renderTable(headers, rows, 2))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

func historyErrorCell(run history.Run) string {
	if run.ErrorMessage == "" {
		return ""
	}
	msg := run.ErrorMessage
	const maxLen = 60
	if len(msg) > maxLen {
		msg = msg[:maxLen-3] + "..."
	}
	if run.ErrorKind != "" {
		return run.ErrorKind + ": " + msg
	}
	return msg
}
