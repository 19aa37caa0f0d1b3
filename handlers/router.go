package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterOptions configures the middleware stack around the ingestion route.
type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	AccessLog      bool
}

// NewRouter mounts the ingestion endpoint at POST /. Any other method on /
// gets 405 from chi.
func NewRouter(ingest *IngestHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	r.Use(corsHandler.Handler)

	r.Post("/", ingest.Ingest)

	return r
}
