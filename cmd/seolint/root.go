package main

import (
	"github.com/foomo/seolint/logging"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var debug bool
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "seolint",
		Short: "Lint html documents against seo rules",
		Long: `seolint checks html documents against a yaml rule configuration.

Rules constrain the presence, count and attributes of tags, nested rules are
scoped to the elements of their parent tag. Documents can be linted once from
urls, files or inline html or continuously by a scheduled service.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if cmd.Flags().Changed("log-level") {
				logging.SetLevel(logLevel)
			}
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("config", "", "path to config file (default \"config.yml\")")

	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
