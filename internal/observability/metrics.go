package observability

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder collects pipeline metrics. Exposition is the serve front end's
// concern; this package only registers and updates collectors.
type Recorder struct {
	stageDuration *prom.HistogramVec
	stageItems    *prom.CounterVec
	stageResults  *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewRecorder constructs and registers the pipeline collectors on reg
// (a fresh registry when nil).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "vitrine",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageItems: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vitrine",
			Name:      "stage_items_total",
			Help:      "Entries emitted by each pipeline stage",
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vitrine",
			Name:      "stage_results_total",
			Help:      "Stage results by outcome",
		}, []string{"stage", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "vitrine",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vitrine",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.stageDuration, r.stageItems, r.stageResults, r.buildDuration, r.buildOutcome)
	return r
}

// ObserveStage records one stage completion.
func (r *Recorder) ObserveStage(stage string, d time.Duration, result string) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	r.stageResults.WithLabelValues(stage, result).Inc()
}

// AddStageItems counts entries emitted by a stage.
func (r *Recorder) AddStageItems(stage string, n int) {
	if r == nil {
		return
	}
	r.stageItems.WithLabelValues(stage).Add(float64(n))
}

// ObserveBuild records one whole pipeline run.
func (r *Recorder) ObserveBuild(d time.Duration, outcome string) {
	if r == nil {
		return
	}
	r.buildDuration.Observe(d.Seconds())
	r.buildOutcome.WithLabelValues(outcome).Inc()
}
