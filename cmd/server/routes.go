package main

import (
	"net/http"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/conversion"
	"github.com/fileforge/fileforge/internal/lifecycle"
	"github.com/fileforge/fileforge/pkg/handlers"
	pkgroutes "github.com/fileforge/fileforge/pkg/routes"
)

// registerRoutes configures all HTTP routes for the service.
func registerRoutes(r pkgroutes.System, runtime *Runtime, domain *Domain, cfg *config.Config) {
	conversionHandler := conversion.NewHandler(
		domain.Conversion,
		cfg.Storage.MaxUploadSizeBytes(),
		runtime.Logger,
	)
	r.RegisterGroup(conversionHandler.Routes())

	r.RegisterGroup(runtime.Metrics.Routes())

	r.RegisterRoute(pkgroutes.Route{
		Method:  http.MethodGet,
		Pattern: "/api/health",
		Handler: func(w http.ResponseWriter, req *http.Request) {
			handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	})

	r.RegisterRoute(pkgroutes.Route{
		Method:  http.MethodGet,
		Pattern: "/healthz",
		Handler: handleHealthCheck,
	})

	r.RegisterRoute(pkgroutes.Route{
		Method:  http.MethodGet,
		Pattern: "/readyz",
		Handler: func(w http.ResponseWriter, req *http.Request) {
			handleReadinessCheck(w, runtime.Lifecycle)
		},
	})
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
