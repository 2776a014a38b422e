package seolint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/foomo/seolint/logging"
	"github.com/foomo/seolint/reports"
	"github.com/foomo/seolint/vo"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// RunHeader carries the id of an ad hoc lint run
const RunHeader = "X-Lint-Run"

const reportsPath = "/reports"

// Service lints its targets on a schedule and serves the results
type Service struct {
	linter   *Linter
	targets  []string
	schedule string
	logger   *log.Logger

	cronLock sync.Mutex
	cron     *cron.Cron

	chanJob      chan string
	chanResult   chan vo.LintResult
	chanRunDone  chan struct{}
	chanStatus   chan chan vo.Status
	chanStop     chan struct{}
	stopOnce     sync.Once
	runLock      sync.Mutex
	reportHandle func(w http.ResponseWriter, r *http.Request, status vo.Status)
}

// NewService creates a service, an empty schedule only lints on Start and
// RunOnce
func NewService(linter *Linter, targets []string, schedule string) (*Service, error) {
	if linter == nil {
		return nil, errors.New("linter is required")
	}
	if schedule != "" {
		_, errParse := cron.ParseStandard(schedule)
		if errParse != nil {
			return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, errParse)
		}
	}
	s := &Service{
		linter:       linter,
		targets:      append([]string{}, targets...),
		schedule:     schedule,
		logger:       linter.logger.With("component", "service"),
		chanJob:      make(chan string),
		chanResult:   make(chan vo.LintResult),
		chanRunDone:  make(chan struct{}),
		chanStatus:   make(chan chan vo.Status),
		chanStop:     make(chan struct{}),
		reportHandle: reports.GetReportHandler(reportsPath),
	}
	go s.main()
	return s, nil
}

// main owns the status
func (s *Service) main() {
	status := vo.Status{
		Results:  map[string]vo.LintResult{},
		Jobs:     map[string]bool{},
		Schedule: s.schedule,
	}
	for {
		select {
		case <-s.chanStop:
			return
		case target := <-s.chanJob:
			status.Jobs[target] = true
		case result := <-s.chanResult:
			status.Jobs[result.TargetURL] = false
			status.Results[result.TargetURL] = result
		case <-s.chanRunDone:
			status.Runs++
		case chanReply := <-s.chanStatus:
			chanReply <- status.Copy()
		}
	}
}

// Start lints all targets now and then on the schedule until ctx is done
func (s *Service) Start(ctx context.Context) error {
	s.cronLock.Lock()
	defer s.cronLock.Unlock()
	if s.cron != nil {
		return errors.New("service already started")
	}
	s.cron = cron.New()
	if s.schedule != "" {
		_, errAdd := s.cron.AddFunc(s.schedule, func() {
			s.RunOnce(ctx)
		})
		if errAdd != nil {
			return fmt.Errorf("failed to schedule lint runs: %w", errAdd)
		}
	}
	s.cron.Start()
	s.logger.Info("service started", logging.FieldSchedule, s.schedule, logging.FieldTargets, len(s.targets))
	go s.RunOnce(ctx)
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops the schedule, waits for a running lint run and releases the
// status loop
func (s *Service) Stop() {
	s.cronLock.Lock()
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.cronLock.Unlock()
	s.runLock.Lock()
	defer s.runLock.Unlock()
	s.stopOnce.Do(func() {
		close(s.chanStop)
		s.logger.Info("service stopped")
	})
}

func (s *Service) stopped() bool {
	select {
	case <-s.chanStop:
		return true
	default:
		return false
	}
}

// RunOnce lints all targets one after the other, runs never overlap
func (s *Service) RunOnce(ctx context.Context) error {
	s.runLock.Lock()
	defer s.runLock.Unlock()
	if s.stopped() {
		return errors.New("service stopped")
	}
	runID := uuid.NewString()
	logger := s.logger.With(logging.FieldRun, runID)
	logger.Info("lint run started", logging.FieldTargets, len(s.targets))
	for _, target := range s.targets {
		if errCtx := ctx.Err(); errCtx != nil {
			return errCtx
		}
		result := s.lint(logging.WithLogger(ctx, logger), runID, Source{URL: target})
		s.linter.metrics.trackTarget(target, result.Findings)
	}
	select {
	case s.chanRunDone <- struct{}{}:
	case <-s.chanStop:
	}
	logger.Info("lint run complete")
	return nil
}

func (s *Service) lint(ctx context.Context, runID string, src Source) vo.LintResult {
	target := src.String()
	select {
	case s.chanJob <- target:
	case <-s.chanStop:
	}
	start := time.Now()
	doc, findings, errLint := s.linter.lint(ctx, LintOptions{Source: src})
	result := vo.LintResult{
		TargetURL: target,
		Findings:  findings,
		Duration:  time.Since(start),
		Time:      start,
		RunID:     runID,
	}
	if doc != nil {
		page := ExtractPage(doc)
		result.Page = &page
	}
	if errLint != nil {
		result.Error = errLint.Error()
		logging.FromContext(ctx).Warn("lint failed", logging.FieldURL, target, logging.FieldError, errLint)
	}
	select {
	case s.chanResult <- result:
	case <-s.chanStop:
	}
	return result
}

// Status returns a copy of the current status
func (s *Service) Status() vo.Status {
	chanReply := make(chan vo.Status)
	select {
	case s.chanStatus <- chanReply:
		return <-chanReply
	case <-s.chanStop:
		return vo.Status{}
	}
}

// Handler serves ad hoc lint runs on /lint, reports on /reports and
// prometheus metrics on /metrics
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/lint", s.handleLint)
	mux.HandleFunc(reportsPath, s.handleReports)
	mux.HandleFunc(reportsPath+"/", s.handleReports)
	mux.Handle("/metrics", s.linter.metrics.Handler())
	return mux
}

func (s *Service) handleReports(w http.ResponseWriter, r *http.Request) {
	s.reportHandle(w, r, s.Status())
}

func (s *Service) handleLint(w http.ResponseWriter, r *http.Request) {
	var src Source
	switch r.Method {
	case http.MethodGet:
		src.URL = r.URL.Query().Get("url")
	case http.MethodPost:
		defer r.Body.Close()
		src.Reader = r.Body
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if src.kind() == "" {
		http.Error(w, ErrNoSource.Error(), http.StatusBadRequest)
		return
	}
	if s.stopped() {
		http.Error(w, "service stopped", http.StatusServiceUnavailable)
		return
	}
	runID := uuid.NewString()
	logger := s.logger.With(logging.FieldRun, runID)
	result := s.lint(logging.WithLogger(r.Context(), logger), runID, src)
	w.Header().Set(RunHeader, runID)
	if result.Error != "" {
		http.Error(w, result.Error, http.StatusBadGateway)
		return
	}
	if strings.ToLower(r.URL.Query().Get("format")) == "yaml" {
		yamlBytes, errYaml := yaml.Marshal(result)
		if errYaml != nil {
			http.Error(w, errYaml.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(yamlBytes)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(reports.Transcript(result.Findings)))
}
