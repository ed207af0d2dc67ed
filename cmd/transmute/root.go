package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmdCtx := newCommandContext()

	root := &cobra.Command{
		Use:           "transmute",
		Short:         "Convert files between formats through registered stages",
		Long:          "transmute resolves a conversion route between two file formats and drives the external tools that implement each hop.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&cmdCtx.configPath, "config", "c", "", "path to the configuration file")
	root.PersistentFlags().CountVarP(&cmdCtx.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	root.PersistentFlags().BoolVarP(&cmdCtx.quiet, "quiet", "q", false, "suppress progress output")

	root.AddCommand(newRunCommand(cmdCtx))
	root.AddCommand(newListCommand(cmdCtx))
	root.AddCommand(newHistoryCommand(cmdCtx))
	root.AddCommand(newConfigCommand(cmdCtx))

	return root
}
