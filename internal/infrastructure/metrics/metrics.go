package metrics

import (
	"time"

	"github.com/dermalog/backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports interaction analysis metrics to Prometheus
type Recorder struct {
	runs     *prometheus.CounterVec
	findings *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewRecorder creates a recorder and registers its collectors with reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dermalog_interaction_analyses_total",
			Help: "Total interaction analysis passes by outcome",
		}, []string{"outcome"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dermalog_interaction_findings_total",
			Help: "Total interaction findings emitted by severity",
		}, []string{"severity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dermalog_interaction_analysis_duration_seconds",
			Help:    "Interaction analysis pass duration",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
	}

	for _, c := range []prometheus.Collector{r.runs, r.findings, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveAnalysis implements domain.AnalysisRecorder
func (r *Recorder) ObserveAnalysis(outcome domain.AnalysisOutcome, report *domain.InteractionReport, elapsed time.Duration) {
	r.runs.WithLabelValues(string(outcome)).Inc()
	r.duration.Observe(elapsed.Seconds())

	if report == nil {
		return
	}
	for _, finding := range report.Interactions {
		r.findings.WithLabelValues(string(finding.Type)).Inc()
	}
}
