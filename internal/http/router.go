package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Paintings    *PaintingHandler
	Availability *AvailabilityHandler
	Exhibitions  *ExhibitionHandler

	// Health reports storage reachability for GET /health. Optional.
	Health func(ctx context.Context) error

	Logger     *slog.Logger
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Logger))
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	responder := newResponder(cfg.Logger)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(req.Context()); err != nil {
				responder.writeError(req.Context(), w, http.StatusServiceUnavailable, err)
				return
			}
		}
		responder.writeJSON(req.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Paintings != nil {
		r.Route("/paintings", func(r chi.Router) {
			r.Get("/", cfg.Paintings.List)
			r.Post("/", cfg.Paintings.Create)
		})
	}

	if cfg.Availability != nil {
		r.Get("/availability", cfg.Availability.Get)
	}

	if cfg.Exhibitions != nil {
		r.Route("/exhibitions", func(r chi.Router) {
			r.Get("/", cfg.Exhibitions.List)
			r.Post("/", cfg.Exhibitions.Create)
			r.Get("/{id}", cfg.Exhibitions.Get)
			r.Put("/{id}", cfg.Exhibitions.Update)
			r.Delete("/{id}", cfg.Exhibitions.Delete)
		})
	}

	return r
}
