package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show registered formats and conversion stages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			formatRows := make([][]string, 0, len(cfg.Formats))
			for _, format := range cfg.Formats {
				formatRows = append(formatRows, []string{
					format.Name,
					strings.Join(format.Extensions, " "),
				})
			}
			fmt.Fprintln(out, "Formats")
			fmt.Fprintln(out, renderTable([]string{"Name", "Extensions"}, formatRows))

			stageRows := make([][]string, 0, len(cfg.Stages))
			for _, st := range cfg.Stages {
				stageRows = append(stageRows, []string{
					st.Name,
					st.Source,
					st.Target,
					strconv.Itoa(st.Priority),
					st.Command,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Stages")
			fmt.Fprintln(out, renderTable([]string{"Name", "From", "To", "Priority", "Command"}, stageRows, 4))
			return nil
		},
	}
}
