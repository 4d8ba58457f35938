package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	registrations   *prometheus.CounterVec
	unregistrations *prometheus.CounterVec
	relocations     prometheus.Counter
	removed         prometheus.Counter
	phase           prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmdgraph_registrations_total",
				Help: "Total number of command registrations",
			},
			[]string{"mode"},
		),
		unregistrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmdgraph_unregistrations_total",
				Help: "Total number of unregistrations that removed something",
			},
			[]string{"scope"},
		),
		relocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cmdgraph_relocations_total",
			Help: "Total number of nodes re-homed under the reserved namespace",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cmdgraph_removed_names_total",
			Help: "Total number of names dropped by unregistrations",
		}),
		phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cmdgraph_phase",
			Help: "Current lifecycle phase (0 preload, 1 can_register, 2 loaded)",
		}),
	}

	for _, c := range []prometheus.Collector{m.registrations, m.unregistrations, m.relocations, m.removed, m.phase} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRegister: func(ctx context.Context, e *domain.CommandEvent) {
			m.registrations.WithLabelValues(string(e.Mode)).Inc()
		},
		OnUnregister: func(ctx context.Context, e *domain.CommandEvent) {
			m.unregistrations.WithLabelValues(string(e.Scope)).Inc()
			m.removed.Add(float64(len(e.Removed)))
		},
		OnRelocate: func(ctx context.Context, e *domain.CommandEvent) {
			m.relocations.Inc()
		},
		OnPhaseChange: func(ctx context.Context, e *domain.PhaseEvent) {
			m.phase.Set(float64(e.To))
		},
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
