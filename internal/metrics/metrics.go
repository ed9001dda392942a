package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielpatrickdp/promenade/internal/simulate"
)

// #region recorder
// Recorder exports simulation counters to a prometheus registry.
type Recorder struct {
	runs          prometheus.Counter
	failures      *prometheus.CounterVec
	roundsDanced  prometheus.Counter
	roundsSkipped prometheus.Counter
	cycles        prometheus.Counter
	cycleLength   prometheus.Histogram
	duration      prometheus.Histogram
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promenade",
			Name:      "runs_total",
			Help:      "Completed simulation runs.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promenade",
			Name:      "run_failures_total",
			Help:      "Rejected simulation requests by reason.",
		}, []string{"reason"}),
		roundsDanced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promenade",
			Name:      "rounds_danced_total",
			Help:      "Rounds actually applied.",
		}),
		roundsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promenade",
			Name:      "rounds_skipped_total",
			Help:      "Rounds answered through a detected cycle instead of being applied.",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promenade",
			Name:      "cycles_detected_total",
			Help:      "Runs that detected a repeated lineup.",
		}),
		cycleLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "promenade",
			Name:      "cycle_length_rounds",
			Help:      "Length of detected cycles.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "promenade",
			Name:      "run_duration_seconds",
			Help:      "Wall time of simulation runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{
		r.runs, r.failures, r.roundsDanced, r.roundsSkipped, r.cycles, r.cycleLength, r.duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one completed run.
func (r *Recorder) Observe(res simulate.Result, elapsed time.Duration) {
	r.runs.Inc()
	r.roundsDanced.Add(float64(res.Executed))
	r.roundsSkipped.Add(float64(res.Skipped()))
	if res.Cycle != nil {
		r.cycles.Inc()
		r.cycleLength.Observe(float64(res.Cycle.Length))
	}
	r.duration.Observe(elapsed.Seconds())
}

// Fail records a rejected run, e.g. reason "parse" or "precondition".
func (r *Recorder) Fail(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}
// #endregion recorder
