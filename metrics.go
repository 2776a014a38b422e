package seolint

import (
	"net/http"
	"time"

	"github.com/foomo/seolint/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	prometheusLabelSource = "source"
	prometheusLabelStatus = "status"
	prometheusLabelCode   = "code"
	prometheusLabelTarget = "target"

	statusValid   = "valid"
	statusInvalid = "invalid"
)

// Metrics of lint runs, all methods are safe to call on a nil *Metrics
type Metrics struct {
	registry       *prometheus.Registry
	runs           *prometheus.CounterVec
	findings       *prometheus.CounterVec
	durations      *prometheus.SummaryVec
	loadFailures   *prometheus.CounterVec
	targetFindings *prometheus.GaugeVec
}

// NewMetrics registers the lint metrics with a registry of their own
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seolint_lint_runs_total",
				Help: "number of lint runs by document source and result",
			},
			[]string{prometheusLabelSource, prometheusLabelStatus},
		),
		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seolint_findings_total",
				Help: "number of findings by code",
			},
			[]string{prometheusLabelCode},
		),
		durations: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "seolint_lint_durations_seconds",
				Help:       "lint duration including loading the document",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{prometheusLabelSource},
		),
		loadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seolint_document_load_failures_total",
				Help: "number of documents that could not be loaded",
			},
			[]string{prometheusLabelSource},
		),
		targetFindings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "seolint_target_findings",
				Help: "number of findings of the latest run per service target",
			},
			[]string{prometheusLabelTarget},
		),
	}
	m.registry.MustRegister(
		m.runs,
		m.findings,
		m.durations,
		m.loadFailures,
		m.targetFindings,
	)
	return m
}

// Handler exposes the metrics in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) trackLint(source string, findings vo.Findings, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusValid
	if !findings.Valid() {
		status = statusInvalid
	}
	m.runs.WithLabelValues(source, status).Inc()
	m.durations.WithLabelValues(source).Observe(duration.Seconds())
	for code, count := range findings.ByCode() {
		m.findings.WithLabelValues(string(code)).Add(float64(count))
	}
}

func (m *Metrics) trackLoadFailure(source string) {
	if m == nil {
		return
	}
	m.loadFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) trackTarget(target string, findings vo.Findings) {
	if m == nil {
		return
	}
	m.targetFindings.WithLabelValues(target).Set(float64(len(findings)))
}
