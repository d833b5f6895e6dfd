// Package metrics exposes run counters for job dispatch and curve fitting.
// Each Metrics owns its registry so runs and tests do not share state.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "qcal"
	subsystem        = "calibration"
)

// Metrics holds the collectors for one run.
type Metrics struct {
	registry *prometheus.Registry

	jobsDispatched   *prometheus.CounterVec
	dispatchFailures *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	fidelity         *prometheus.GaugeVec
	decayRate        *prometheus.GaugeVec
}

// New registers a fresh collector set.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		jobsDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: subsystem,
				Name:      "jobs_dispatched_total",
				Help:      "Total number of jobs handed to an executor",
			},
			[]string{"executor"},
		),
		dispatchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: subsystem,
				Name:      "dispatch_failures_total",
				Help:      "Total number of job tables whose executor returned an error",
			},
			[]string{"executor"},
		),
		dispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: subsystem,
				Name:      "dispatch_duration_seconds",
				Help:      "Time an executor took to fill one job table",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"executor"},
		),
		fidelity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: subsystem,
				Name:      "average_gate_fidelity",
				Help:      "Average gate fidelity from the last analysis",
			},
			[]string{"protocol"},
		),
		decayRate: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: subsystem,
				Name:      "decay_rate",
				Help:      "Fitted decay parameter from the last analysis",
			},
			[]string{"protocol", "quantity"},
		),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveDispatch records one executor call over jobs jobs.
func (m *Metrics) ObserveDispatch(executor string, jobs int, elapsed time.Duration, err error) {
	m.jobsDispatched.WithLabelValues(executor).Add(float64(jobs))
	m.dispatchDuration.WithLabelValues(executor).Observe(elapsed.Seconds())
	if err != nil {
		m.dispatchFailures.WithLabelValues(executor).Inc()
	}
}

// SetFidelity records a protocol's average gate fidelity.
func (m *Metrics) SetFidelity(protocol string, f float64) {
	m.fidelity.WithLabelValues(protocol).Set(f)
}

// SetDecay records a fitted decay quantity such as "p" or "unitarity".
func (m *Metrics) SetDecay(protocol, quantity string, v float64) {
	m.decayRate.WithLabelValues(protocol, quantity).Set(v)
}

// WriteFile writes the registry in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
