package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayusman/mudra/internal/dispatch"
)

// Metrics are the pipeline's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	samples *prometheus.CounterVec
	effects *prometheus.CounterVec
	failed  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mudra",
			Name:      "samples_total",
			Help:      "Classified frames queued for dispatch, by outcome.",
		}, []string{"outcome"}),
		effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mudra",
			Name:      "effects_total",
			Help:      "Actuator operations issued by the dispatch engine.",
		}, []string{"kind"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mudra",
			Name:      "effect_failures_total",
			Help:      "Actuator operations that returned an error.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.samples, m.effects, m.failed)
	return m
}

// RegisterQueue exports the depth and drop count of the live queue.
func (m *Metrics) RegisterQueue(reg prometheus.Registerer, a *App) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "mudra",
			Name:      "queue_depth",
			Help:      "Samples waiting for the dispatch runner.",
		}, func() float64 { return float64(a.Status().QueueDepth) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mudra",
			Name:      "queue_dropped_total",
			Help:      "Motion-only samples dropped because the queue was full.",
		}, func() float64 { return float64(a.Status().Dropped) }),
	)
}

// ObserveSample counts a queued sample built from a frame in which the
// classifier found the given number of hands.
func (m *Metrics) ObserveSample(hands int, s dispatch.Sample) {
	if m == nil {
		return
	}
	outcome := "hand"
	switch {
	case hands == 0:
		outcome = "no_hand"
	case s.Lost():
		outcome = "unlabeled"
	}
	m.samples.WithLabelValues(outcome).Inc()
}

// ObserveEffect counts an engine effect.
func (m *Metrics) ObserveEffect(ef dispatch.Effect) {
	if m == nil {
		return
	}
	kind := string(ef.Kind)
	m.effects.WithLabelValues(kind).Inc()
	if ef.Err != nil {
		m.failed.WithLabelValues(kind).Inc()
	}
}
