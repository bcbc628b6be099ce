package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/username/notional/backend/src/services"
)

type RouterConfig struct {
	CORSOrigins    []string
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the HTTP API around a NotionalService.
func NewRouter(service services.NotionalService, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "If-None-Match", "X-Requested-With"},
		ExposedHeaders:   []string{"ETag", "Location", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	uploadHandler := NewUploadHandler(service, cfg.MaxUploadBytes)
	resultsHandler := NewResultsHandler(service)

	r.Get("/", HandleStatus)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/platforms", resultsHandler.HandlePlatforms)
		r.Post("/upload", uploadHandler.HandleUpload)
		r.Route("/results/{id}", func(r chi.Router) {
			r.Get("/", resultsHandler.HandleGetResult)
			r.Get("/download", resultsHandler.HandleDownload)
			r.Get("/chart", resultsHandler.HandleChart)
		})
	})

	return r
}
