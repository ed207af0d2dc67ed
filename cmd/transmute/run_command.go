package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"transmute/internal/driver"
	"transmute/internal/history"
	"transmute/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		source     string
		target     string
		outputFile string
		overrides  []string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Convert a file from one format to another",
		Long:  "run resolves the cheapest chain of registered stages between the source and target formats and executes it over the input.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inputFile := ""
			if len(args) == 1 {
				inputFile = args[0]
			}
			if inputFile == "" && source == "" {
				return services.Wrap(services.ErrUsage, "", "run", "an input file or --from is required", nil)
			}

			opts := driver.Options{
				Config:     cfg,
				Logger:     ctx.log(),
				Source:     source,
				Target:     target,
				InputFile:  inputFile,
				OutputFile: outputFile,
				Overrides:  overrides,
			}
			if inputFile == "" {
				opts.Stdin = cmd.InOrStdin()
			}

			res, err := driver.Resolve(opts)
			if err != nil {
				return err
			}

			if dryRun {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "transmute will perform the following steps:")
				for _, st := range res.Path.Stages {
					fmt.Fprintf(out, "  %s: %s -> %s\n", st.Name, st.Source, st.Target)
				}
				_, err := res.Execute(cmd.Context(), driver.ExecOptions{DryRun: true})
				return err
			}

			execOpts := driver.ExecOptions{
				Reporter: newProgressReporter(cmd.ErrOrStderr(), progressEnabled(ctx.quiet)),
			}
			if cfg.History.Enabled {
				store, storeErr := history.Open(cfg)
				if storeErr != nil {
					ctx.log().Warn("history store unavailable", "error", storeErr)
				} else {
					defer store.Close()
					execOpts.Observer = history.NewRecorder(store)
				}
			}

			out, err := res.Execute(cmd.Context(), execOpts)
			if err != nil {
				var failure *services.StageFailureError
				if errors.As(err, &failure) && failure.Stderr != "" {
					fmt.Fprint(cmd.ErrOrStderr(), failure.Stderr)
				}
				return err
			}

			return driver.Deliver(out, outputFile, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&source, "from", "", "source format (inferred from the input extension when omitted)")
	cmd.Flags().StringVar(&target, "to", "", "target format (inferred from the output extension when omitted)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().StringArrayVarP(&overrides, "set", "s", nil, "override a stage option, stages.<name>.<option>=<value> (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the resolved stages without running converters")

	return cmd
}

func progressEnabled(quiet bool) bool {
	if quiet {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
