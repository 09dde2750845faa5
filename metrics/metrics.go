package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Import holds the Prometheus metrics for workbook previews and imports.
type Import struct {
	// mode: preview|import, result: ok|error
	Runs *prometheus.CounterVec
	// kind: trial|day|class|round|entry|selection|score
	RowsCreated *prometheus.CounterVec
	// unit: column|class|round|entry|selection|score|judge
	Skipped *prometheus.CounterVec
	// Workbook processing time by mode.
	Duration *prometheus.HistogramVec
}

// New registers the import metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Import {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Import{
		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trialimport_runs_total",
				Help: "Workbook previews and imports by outcome",
			},
			[]string{"mode", "result"},
		),
		RowsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trialimport_rows_created_total",
				Help: "Rows inserted by the importer by table",
			},
			[]string{"kind"},
		),
		Skipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trialimport_skipped_total",
				Help: "Units skipped during import by unit type",
			},
			[]string{"unit"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trialimport_duration_seconds",
				Help:    "Time spent processing a workbook",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"mode"},
		),
	}
}

// Run records the outcome of one preview or import. Safe on a nil receiver.
func (m *Import) Run(mode string, err error, seconds float64) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Runs.WithLabelValues(mode, result).Inc()
	m.Duration.WithLabelValues(mode).Observe(seconds)
}

// Created counts one inserted row. Safe on a nil receiver.
func (m *Import) Created(kind string) {
	if m == nil {
		return
	}
	m.RowsCreated.WithLabelValues(kind).Inc()
}

// Skip counts one skipped unit. Safe on a nil receiver.
func (m *Import) Skip(unit string) {
	if m == nil {
		return
	}
	m.Skipped.WithLabelValues(unit).Inc()
}
