package main

import (
	"fmt"
	"io"

	"github.com/foomo/seolint"
	"github.com/foomo/seolint/config"
	"github.com/foomo/seolint/htmlschema"
	"github.com/foomo/seolint/logging"
	"github.com/spf13/cobra"
)

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.DefaultFilename
	}
	return path
}

// loadConfig reads the config and the rules below key from the same file
func loadConfig(cmd *cobra.Command, key string) (*config.Config, htmlschema.Config, error) {
	path := configPath(cmd)
	conf, errConf := config.Get(path)
	if errConf != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", errConf)
	}
	if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("debug") {
		logging.SetLevel(conf.LogLevel)
	}
	rules, errRules := config.LoadRules(path, key)
	if errRules != nil {
		return nil, nil, fmt.Errorf("failed to load rules: %w", errRules)
	}
	return conf, rules, nil
}

func newLinter(conf *config.Config, rules htmlschema.Config, console io.Writer, opts ...seolint.Option) (*seolint.Linter, error) {
	fetcher := seolint.NewFetcher(
		conf.Agent,
		conf.Timeout,
		conf.MaxContentSize,
		seolint.FetcherIgnoreRobots(conf.IgnoreRobots),
	)
	opts = append([]seolint.Option{
		seolint.WithFetcher(fetcher),
		seolint.WithConsole(console),
		seolint.WithLogger(logging.Default()),
	}, opts...)
	return seolint.NewLinter(rules, opts...)
}
