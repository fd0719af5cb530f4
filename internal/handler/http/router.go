package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dffarhn/recyle-food-mobile/internal/service"
	"github.com/Dffarhn/recyle-food-mobile/pkg/health"
	"github.com/Dffarhn/recyle-food-mobile/pkg/middleware"
)

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	ServiceName    string
	CORS           middleware.CORSConfig
	CacheMaxAge    int
	RequestTimeout time.Duration
	PprofEnabled   bool
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all mystery box service routes registered.
func NewRouter(
	mysteryBoxService *service.MysteryBoxService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	// Mystery box API endpoints
	mysteryBoxHandler := NewMysteryBoxHandler(mysteryBoxService, logger)

	r.Route("/api/v1/mystery-boxes", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		r.Use(chimw.Compress(5, "application/json"))
		r.Use(middleware.CacheControl(cfg.CacheMaxAge))

		r.Get("/", mysteryBoxHandler.ListNearby)
		r.Get("/{id}", mysteryBoxHandler.GetDetail)
	})

	return r
}
