package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/foomo/seolint"
	"github.com/foomo/seolint/config"
	"github.com/foomo/seolint/htmlschema"
	"github.com/foomo/seolint/logging"
	"github.com/foomo/seolint/reports"
	"github.com/spf13/cobra"
)

// ErrLintIssuesFound is returned when a linted document has findings
var ErrLintIssuesFound = errors.New("lint issues found")

type lintFlags struct {
	key     string
	url     string
	html    string
	output  string
	path    string
	silence bool
	watch   bool
}

func newLintCommand() *cobra.Command {
	flags := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "lint [files...]",
		Short: "Lint html documents",
		Long: `Lint html documents from a url, inline html or files.

Files may be given as doublestar globs. The command fails when any document
has findings.

Examples:
  seolint lint --url https://www.example.com/
  seolint lint --html '<html><head></head></html>'
  seolint lint 'public/**/*.html'
  seolint lint --output file --path report.txt index.html
  seolint lint --watch index.html`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags)
		},
	}
	cmd.Flags().StringVar(&flags.key, "key", config.DefaultRulesKey, "config entry holding the rules")
	cmd.Flags().StringVar(&flags.url, "url", "", "url of the document to lint")
	cmd.Flags().StringVar(&flags.html, "html", "", "html markup to lint")
	cmd.Flags().StringVar(&flags.output, "output", "", "report output: console, file")
	cmd.Flags().StringVar(&flags.path, "path", "", "report file of the file output")
	cmd.Flags().BoolVar(&flags.silence, "silence", false, "do not print the report to the console")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "lint files again when they or the config change")
	return cmd
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags) error {
	conf, rules, errConf := loadConfig(cmd, flags.key)
	if errConf != nil {
		return errConf
	}
	output := lintOutput(cmd, conf.Output, flags)
	if errOutput := output.Validate(); errOutput != nil {
		return errOutput
	}
	sources, files, errSources := lintSources(args, flags)
	if errSources != nil {
		return errSources
	}
	linter, errLinter := newLinter(conf, rules, cmd.OutOrStdout())
	if errLinter != nil {
		return errLinter
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !flags.watch {
		return lintAll(ctx, linter, sources, output, nil)
	}
	if len(files) == 0 {
		return errors.New("--watch needs files to lint")
	}
	return watchLint(ctx, cmd, linter, sources, files, output, flags.key)
}

func lintOutput(cmd *cobra.Command, output reports.Output, flags *lintFlags) reports.Output {
	if cmd.Flags().Changed("output") {
		output.Type = reports.OutputType(flags.output)
	}
	if cmd.Flags().Changed("path") {
		output.Path = flags.path
	}
	if cmd.Flags().Changed("silence") {
		output.Silence = flags.silence
	}
	if output.Type == "" {
		output.Type = reports.OutputConsole
	}
	return output
}

// lintSources returns the sources to lint and the files among them
func lintSources(args []string, flags *lintFlags) (sources []seolint.Source, files []string, err error) {
	if flags.url != "" {
		sources = append(sources, seolint.Source{URL: flags.url})
	}
	if flags.html != "" {
		sources = append(sources, seolint.Source{HTML: flags.html})
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			files = append(files, arg)
			continue
		}
		matches, errGlob := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if errGlob != nil {
			return nil, nil, fmt.Errorf("invalid pattern %q: %w", arg, errGlob)
		}
		if len(matches) == 0 {
			return nil, nil, fmt.Errorf("no files match %q", arg)
		}
		files = append(files, matches...)
	}
	for _, file := range files {
		sources = append(sources, seolint.Source{File: file})
	}
	if len(sources) == 0 {
		return nil, nil, seolint.ErrNoSource
	}
	return sources, files, nil
}

// lintAll lints all sources, rules replace the rules of the linter when set
func lintAll(ctx context.Context, linter *seolint.Linter, sources []seolint.Source, output reports.Output, rules htmlschema.Config) error {
	logger := logging.Default()
	invalid := 0
	for _, source := range sources {
		findings, errLint := linter.Lint(ctx, seolint.LintOptions{
			Source: source,
			Rules:  rules,
			Output: output,
		})
		if errLint != nil {
			return fmt.Errorf("failed to lint %s: %w", source, errLint)
		}
		rules = nil
		if !findings.Valid() {
			invalid++
		}
		logger.Info("linted", logging.FieldPath, source.String(), logging.FieldFindings, len(findings))
	}
	if invalid > 0 {
		return ErrLintIssuesFound
	}
	return nil
}

func watchLint(ctx context.Context, cmd *cobra.Command, linter *seolint.Linter, sources []seolint.Source, files []string, output reports.Output, key string) error {
	logger := logging.Default()
	lint := func(rules htmlschema.Config) {
		errLint := lintAll(ctx, linter, sources, output, rules)
		if errLint != nil && !errors.Is(errLint, ErrLintIssuesFound) {
			logger.Error("lint failed", logging.FieldError, errLint)
		}
	}
	lint(nil)
	path := configPath(cmd)
	absConfig, errAbs := filepath.Abs(path)
	if errAbs != nil {
		return errAbs
	}
	logger.Info("watching for changes", logging.FieldTargets, len(files))
	return seolint.Watch(ctx, append([]string{path}, files...), func(names []string) {
		if !slices.Contains(names, absConfig) {
			lint(nil)
			return
		}
		rules, errRules := config.LoadRules(path, key)
		if errRules != nil {
			logger.Error("could not reload rules", logging.FieldError, errRules)
			return
		}
		logger.Info("rules reloaded", logging.FieldPath, path)
		lint(rules)
	})
}
