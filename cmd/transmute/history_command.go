package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"transmute/internal/history"
	"transmute/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded conversion runs",
		Long:  "history lists past runs from the run ledger. With a run id it shows the per-stage detail for that run.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				entries, err := store.StagesForRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					return services.Wrap(services.ErrNotFound, "", "history", fmt.Sprintf("run %s not found", args[0]), nil)
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.Itoa(entry.Index + 1),
						entry.Name,
						entry.Source,
						entry.Target,
						entry.Status,
						strconv.Itoa(entry.ExitCode),
						formatDuration(entry.Duration),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Stage", "From", "To", "Status", "Exit", "Duration"},
					rows, 1, 6, 7,
				))
				return nil
			}

			effective := limit
			if effective <= 0 {
				effective = cfg.History.Limit
			}
			runs, err := store.ListRuns(cmd.Context(), effective)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.Source,
					run.Target,
					strconv.Itoa(run.StageCount),
					run.Status,
					run.CreatedAt.Local().Format(time.DateTime),
					formatDuration(run.Duration),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "From", "To", "Stages", "Status", "Started", "Duration"},
				rows, 4, 7,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of runs to list (0 uses the configured limit)")
	return cmd
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
