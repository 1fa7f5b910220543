package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns the collectors for the notification center and the registry
// they are exposed from.
type Metrics struct {
	Registry       *prometheus.Registry
	Active         prometheus.Gauge
	Added          *prometheus.CounterVec
	Removed        *prometheus.CounterVec
	DismissPending prometheus.Gauge
	ArchiveErrors  prometheus.Counter
	SSEClients     prometheus.Gauge
	SSEDropped     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifications_active",
			Help: "Notifications currently in the center.",
		}),
		Added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_added_total",
			Help: "Notifications added, by kind.",
		}, []string{"kind"}),
		Removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_removed_total",
			Help: "Notifications removed, by kind and reason.",
		}, []string{"kind", "reason"}),
		DismissPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifications_dismiss_pending",
			Help: "Auto-dismiss timers currently armed.",
		}),
		ArchiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_archive_errors_total",
			Help: "History writes that failed.",
		}),
		SSEClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_clients",
			Help: "Connected SSE clients.",
		}),
		SSEDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sse_events_dropped_total",
			Help: "Change events dropped because the hub or a client was full.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Active,
		m.Added,
		m.Removed,
		m.DismissPending,
		m.ArchiveErrors,
		m.SSEClients,
		m.SSEDropped,
	)
	return m
}
