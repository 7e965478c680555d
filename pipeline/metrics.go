package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailed  = "failed"
	outcomeBlocked = "blocked"
)

// Metrics collects per-run figures on a private registry. A batch run has no
// scrape endpoint, so the registry is written to a node-exporter textfile.
type Metrics struct {
	reg        *prometheus.Registry
	stages     *prometheus.HistogramVec
	runs       *prometheus.CounterVec
	thumbBytes prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		stages: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogagent_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blogagent_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"outcome"}),
		thumbBytes: f.NewGauge(prometheus.GaugeOpts{
			Name: "blogagent_thumbnail_bytes",
			Help: "Size of the last saved thumbnail",
		}),
	}
}

func (m *Metrics) observe(run *Run, outcome string) {
	for _, s := range run.Stages() {
		m.stages.WithLabelValues(s.Name).Observe(s.Took.Seconds())
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.thumbBytes.Set(float64(run.Thumbnail.Bytes))
}

// WriteFile dumps the registry in text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
