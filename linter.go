package seolint

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/foomo/seolint/config"
	"github.com/foomo/seolint/htmlschema"
	"github.com/foomo/seolint/logging"
	"github.com/foomo/seolint/reports"
	"github.com/foomo/seolint/vo"
)

// ErrNoRules is returned when a linter is created without rules
var ErrNoRules = errors.New("rules are required")

// Linter validates documents against its active rule forest
type Linter struct {
	lock    sync.RWMutex
	forest  *htmlschema.Forest
	fetcher *Fetcher
	metrics *Metrics
	logger  *log.Logger
	console io.Writer
}

type Option func(l *Linter)

func WithLogger(logger *log.Logger) Option {
	return func(l *Linter) {
		l.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(l *Linter) {
		l.metrics = m
	}
}

func WithFetcher(f *Fetcher) Option {
	return func(l *Linter) {
		l.fetcher = f
	}
}

// WithConsole sets the writer of console reports, stdout by default
func WithConsole(w io.Writer) Option {
	return func(l *Linter) {
		l.console = w
	}
}

func NewLinter(rules htmlschema.Config, opts ...Option) (*Linter, error) {
	if rules == nil {
		return nil, ErrNoRules
	}
	forest, errBuild := htmlschema.Build(rules)
	if errBuild != nil {
		return nil, errBuild
	}
	l := &Linter{
		forest:  forest,
		fetcher: NewFetcher(config.DefaultAgent, config.DefaultTimeout, config.DefaultMaxContentSize),
		logger:  logging.Default(),
		console: os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LintOptions of a single lint run
type LintOptions struct {
	Source Source
	// Rules replace the rules of the linter when not nil
	Rules htmlschema.Config
	// Output of the report, a zero Output reports to the console
	Output reports.Output
}

// Forest returns the active rules
func (l *Linter) Forest() *htmlschema.Forest {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.forest
}

func (l *Linter) setForest(forest *htmlschema.Forest) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.forest = forest
}

// Metrics returns the metrics the linter tracks, nil if it has none
func (l *Linter) Metrics() *Metrics {
	return l.metrics
}

// Lint loads the document of opts.Source, validates it and writes the
// report, if there are findings. Findings are never returned as an error.
func (l *Linter) Lint(ctx context.Context, opts LintOptions) (findings vo.Findings, err error) {
	output := opts.Output
	if output.IsZero() {
		output = reports.Output{Type: reports.OutputConsole}
	}
	errOutput := output.Validate()
	if errOutput != nil {
		return nil, errOutput
	}
	_, findings, errLint := l.lint(ctx, opts)
	if errLint != nil {
		return nil, errLint
	}
	if len(findings) > 0 {
		errWrite := reports.Write(output, l.console, findings)
		if errWrite != nil {
			return findings, errWrite
		}
	}
	return findings, nil
}

func (l *Linter) lint(ctx context.Context, opts LintOptions) (doc *goquery.Document, findings vo.Findings, err error) {
	source := opts.Source.kind()
	if source == "" {
		return nil, nil, ErrNoSource
	}
	forest := l.Forest()
	if opts.Rules != nil {
		built, errBuild := htmlschema.Build(opts.Rules)
		if errBuild != nil {
			return nil, nil, errBuild
		}
		l.setForest(built)
		forest = built
	}

	logger := logging.FromContext(ctx)
	if logger == logging.Default() {
		logger = l.logger
	}
	logger = logger.With(logging.FieldPath, opts.Source.String())
	start := time.Now()
	doc, errLoad := l.fetcher.Load(ctx, opts.Source)
	if errLoad != nil {
		l.metrics.trackLoadFailure(source)
		logger.Debug("could not load document", logging.FieldError, errLoad)
		return nil, nil, errLoad
	}
	findings = htmlschema.Validate(doc.Selection, forest)
	duration := time.Since(start)
	l.metrics.trackLint(source, findings, duration)
	logger.Debug("linted document", logging.FieldFindings, len(findings), logging.FieldDuration, duration)
	return doc, findings, nil
}

// Validate runs the active rules over an already parsed document
func (l *Linter) Validate(doc *goquery.Document) vo.Findings {
	if doc == nil {
		return vo.Findings{}
	}
	return htmlschema.Validate(doc.Selection, l.Forest())
}
