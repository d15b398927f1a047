package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lumbunglabs/kasir/internal/http/catalog"
	"github.com/lumbunglabs/kasir/internal/http/history"
	"github.com/lumbunglabs/kasir/internal/http/till"
)

func New(
	tillV1 *till.Handler,
	catalogV1 *catalog.Handler,
	historyV1 *history.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// The register front end is a browser page served separately.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/till", tillV1.Routes)

		r.Route("/catalog", func(r chi.Router) {
			catalogV1.Routes(r)
		})

		r.Route("/history", func(r chi.Router) {
			historyV1.Routes(r)
		})
	})

	return router
}
