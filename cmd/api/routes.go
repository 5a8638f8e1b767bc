package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	httphandlers "lifecfo/internal/interfaces/http"
	"lifecfo/internal/shared/config"
	"lifecfo/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/health", httphandlers.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Dashboard and projections
	mux.HandleFunc("/api/dashboard", deps.DashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/debts/projection", deps.DebtHandler.HandleProjection)
	mux.HandleFunc("/api/scenarios/simulate", deps.ScenarioHandler.HandleSimulate)
	mux.HandleFunc("/api/scenarios/presets", deps.ScenarioHandler.HandlePresets)

	// Record collections
	mux.HandleFunc("/api/records/{collection}", deps.RecordsHandler.HandleCollection)

	// Bank links
	mux.HandleFunc("/api/links/token", deps.LinkHandler.HandleLinkToken)
	mux.HandleFunc("/api/links/refresh", deps.LinkHandler.HandleRefresh)
	mux.HandleFunc("/api/links/{id}", deps.LinkHandler.HandleLinkByID)
	mux.HandleFunc("/api/links", deps.LinkHandler.HandleLinks)

	// Exit plan, export, devices
	mux.HandleFunc("/api/exit-plan", deps.ExitPlanHandler.HandleExitPlan)
	mux.HandleFunc("/api/export", deps.ExportHandler.HandleExport)
	mux.HandleFunc("/api/devices", deps.NotificationHandler.HandleDevices)

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
