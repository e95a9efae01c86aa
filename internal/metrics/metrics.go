// Package metrics exposes Prometheus instrumentation for the service.
// Collectors are registered on a dedicated registry so tests can create
// isolated instances without default-registry collisions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fileforge/fileforge/pkg/routes"
)

// Outcome labels for conversion results.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	Uploads     prometheus.Counter
	Conversions *prometheus.CounterVec
	Downloads   prometheus.Counter
	SweepRuns   prometheus.Counter
	SweepDeleted prometheus.Counter
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Uploads: factory.NewCounter(prometheus.CounterOpts{
			Name: "fileforge_uploads_total",
			Help: "Accepted file uploads.",
		}),
		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fileforge_conversions_total",
			Help: "Conversion attempts by outcome.",
		}, []string{"outcome"}),
		Downloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "fileforge_downloads_total",
			Help: "Converted artifact downloads.",
		}),
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "fileforge_sweep_runs_total",
			Help: "Expiry sweep executions.",
		}),
		SweepDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fileforge_sweep_deleted_total",
			Help: "Objects removed by the expiry sweep.",
		}),
	}
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Routes implements routes.System.
func (m *Metrics) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/metrics",
		Description: "Prometheus metrics",
		Routes: []routes.Route{
			{
				Method:  http.MethodGet,
				Pattern: "",
				Handler: m.Handler().ServeHTTP,
			},
		},
	}
}
