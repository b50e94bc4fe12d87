package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/cruce/internal/http/export"
	"github.com/MrJamesThe3rd/cruce/internal/http/importcsv"
	"github.com/MrJamesThe3rd/cruce/internal/http/report"
	"github.com/MrJamesThe3rd/cruce/internal/http/run"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
)

type Options struct {
	Timeout        time.Duration
	AllowedOrigins []string
	// Gatherer serves /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

func New(
	log *logger.Logger,
	opts Options,
	reportsV1 *report.Handler,
	importV1 *importcsv.Handler,
	runsV1 *run.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Timeout > 0 {
			r.Use(middleware.Timeout(opts.Timeout))
		}

		r.Route("/reports", func(r chi.Router) {
			r.Post("/{id}/import", importV1.Upload)
			r.Get("/{id}/export", exportV1.Report)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				reportsV1.Routes(r)
			})
		})

		r.Route("/runs", func(r chi.Router) {
			r.Get("/{id}/export", exportV1.Run)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				runsV1.Routes(r)
			})
		})
	})

	return router
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := log.WithFields(r.Context(), map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": middleware.GetReqID(r.Context()),
			})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			log.Info(log.WithFields(ctx, map[string]any{
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}), "request completed")
		})
	}
}
