package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phoa-app/sentinel/internal/api/handlers"
	mw "github.com/phoa-app/sentinel/internal/api/middleware"
	"github.com/phoa-app/sentinel/internal/config"
	"github.com/phoa-app/sentinel/internal/domain"
	"github.com/phoa-app/sentinel/internal/knowledge"
	"github.com/phoa-app/sentinel/internal/service"
	"github.com/phoa-app/sentinel/internal/store"
	"go.uber.org/zap"
)

// App holds the router and request counters.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the knowledge sources, the alert service and the HTTP
// surface. A nil pool selects the built-in static knowledge source; the
// trigger admin routes are only mounted on the writable Postgres backing.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	var (
		triggers     domain.TriggerSource
		phobias      domain.PhobiaMetadataSource
		treatments   domain.RecommendationSource
		triggerAdmin domain.TriggerStore
	)

	if db != nil && config.KnowledgeSource() == "postgres" {
		triggerStore := store.NewTriggerStore(db)
		triggers = triggerStore
		triggerAdmin = triggerStore
		phobias = store.NewPhobiaStore(db)
		treatments = store.NewTreatmentStore(db)
		logger.Info("knowledge source initialized", zap.String("source", "postgres"))
	} else {
		static := knowledge.NewStatic()
		triggers = static
		phobias = static
		treatments = static
		logger.Info("knowledge source initialized", zap.String("source", "static"))
	}

	alertSvc := service.NewAlertService(triggers, phobias, treatments, config.LookupTimeout(), logger)

	alertHandler := handlers.NewAlertHandler(alertSvc)
	phobiaHandler := handlers.NewPhobiaHandler(phobias, treatments)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Post("/alerts/evaluate", alertHandler.Evaluate)

		r.Route("/phobias", func(r chi.Router) {
			r.Get("/", phobiaHandler.List)
			r.Get("/{id}", phobiaHandler.GetByID)
		})

		if triggerAdmin != nil {
			triggerHandler := handlers.NewTriggerHandler(triggerAdmin)
			r.Route("/triggers/{phobiaId}", func(r chi.Router) {
				r.Get("/", triggerHandler.GetByPhobiaID)
				r.Put("/", triggerHandler.Upsert)
			})
		}
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"go_version":     runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and sources satisfy interfaces at compile time.
var (
	_ domain.TriggerStore         = (*store.TriggerStore)(nil)
	_ domain.PhobiaMetadataSource = (*store.PhobiaStore)(nil)
	_ domain.RecommendationSource = (*store.TreatmentStore)(nil)
	_ domain.TriggerSource        = (*knowledge.Static)(nil)
	_ domain.PhobiaMetadataSource = (*knowledge.Static)(nil)
	_ domain.RecommendationSource = (*knowledge.Static)(nil)
)
