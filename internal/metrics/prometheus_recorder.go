package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	saveDuration   *prom.HistogramVec
	saveOutcomes   *prom.CounterVec
	renders        prom.Counter
	commitDuration prom.Histogram
	dirtyWorktrees prom.Gauge
}

// NewPrometheusRecorder constructs a recorder and registers its metrics on
// reg. Construct at most one recorder per registry: a second registration of
// the same metric names panics in MustRegister. A nil reg gets a private
// registry, useful in tests.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		saveDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "wikistore",
			Name:      "save_stage_duration_seconds",
			Help:      "Duration of individual save pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		saveOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikistore",
			Name:      "save_outcomes_total",
			Help:      "Save outcomes by final status",
		}, []string{"result"}),
		renders: prom.NewCounter(prom.CounterOpts{
			Namespace: "wikistore",
			Name:      "renders_total",
			Help:      "Markdown render count",
		}),
		commitDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wikistore",
			Name:      "commit_duration_seconds",
			Help:      "Duration of version log commits",
			Buckets:   prom.DefBuckets,
		}),
		dirtyWorktrees: prom.NewGauge(prom.GaugeOpts{
			Namespace: "wikistore",
			Name:      "dirty_worktrees",
			Help:      "Course repositories with uncommitted changes found by the reconciler",
		}),
	}
	reg.MustRegister(pr.saveDuration, pr.saveOutcomes, pr.renders, pr.commitDuration, pr.dirtyWorktrees)
	return pr
}

func (pr *PrometheusRecorder) ObserveSaveDuration(stage string, d time.Duration) {
	pr.saveDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncSaveOutcome(result ResultLabel) {
	pr.saveOutcomes.WithLabelValues(string(result)).Inc()
}

func (pr *PrometheusRecorder) IncRender() {
	pr.renders.Inc()
}

func (pr *PrometheusRecorder) ObserveCommitDuration(d time.Duration) {
	pr.commitDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) SetDirtyWorktrees(n int) {
	pr.dirtyWorktrees.Set(float64(n))
}
