package kit

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Log     *zap.Logger
	Service string

	// Registry enables request metrics. /metrics is only mounted when
	// MetricsToken is set too.
	Registry     *prometheus.Registry
	MetricsToken string
}

// NewRouter returns a router with request ids, panic recovery, request logging
// and, given a registry, per-route metrics. Service routes are added on top.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Recoverer)
	r.Use(Logging(deps.Log))

	if deps.Registry == nil {
		return r
	}

	r.Use(NewMetrics(deps.Registry).Middleware(deps.Service, RoutePattern))
	if deps.MetricsToken != "" {
		r.With(MetricsAuth(deps.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
	return r
}
