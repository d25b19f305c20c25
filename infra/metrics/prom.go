package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "studyplan/core/metrics"
)

// PromSink records planning activity in Prometheus metrics.
type PromSink struct {
	runs        prometheus.Counter
	runDuration prometheus.Histogram
	allocations *prometheus.CounterVec
	scheduled   prometheus.Histogram
	unscheduled prometheus.Histogram
	days        prometheus.Gauge
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The metrics server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plan_runs_total",
		Help: "Total number of optimization runs",
	})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_run_duration_seconds",
		Help:    "Time spent computing one optimization run",
		Buckets: prometheus.DefBuckets,
	})
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_allocations_total",
		Help: "Assessments processed per allocation status",
	}, []string{"assessment_type", "status"})
	scheduled := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_scheduled_hours",
		Help:    "Scheduled study hours per run",
		Buckets: []float64{5, 10, 25, 50, 100, 200, 400},
	})
	unscheduled := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_unscheduled_hours",
		Help:    "Study hours left unscheduled per run",
		Buckets: []float64{0.5, 1, 5, 10, 25, 50, 100},
	})
	days := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plan_semester_days",
		Help: "Number of day slots in the most recent run",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(runDuration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runDuration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(allocations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			allocations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(scheduled); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			scheduled = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unscheduled); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unscheduled = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(days); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			days = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		runs:        runs,
		runDuration: runDuration,
		allocations: allocations,
		scheduled:   scheduled,
		unscheduled: unscheduled,
		days:        days,
	}, nil
}

// RecordPlanRun records the aggregate outcome of one optimization run.
func (s *PromSink) RecordPlanRun(ev coremetrics.PlanRunEvent) error {
	s.runs.Inc()
	s.runDuration.Observe(ev.Duration.Seconds())
	s.scheduled.Observe(ev.ScheduledHours)
	s.unscheduled.Observe(ev.UnscheduledHours)
	s.days.Set(float64(ev.Days))
	return nil
}

// RecordAllocations increments the per-status counter for each outcome.
func (s *PromSink) RecordAllocations(outcomes []coremetrics.AllocationOutcome) error {
	for _, o := range outcomes {
		s.allocations.WithLabelValues(o.AssessmentType, string(o.Status)).Inc()
	}
	return nil
}
