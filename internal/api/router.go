package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/luxplan/luxplan-go/internal/config"
)

// NewRouter assembles the service routes behind the standard middleware
// stack.
func NewRouter(cfg *config.Config, handler *Handler) http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin, "http://localhost:3000", "http://localhost:4000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            cfg.IsDevelopment(),
	})
	router.Use(corsMiddleware.Handler)

	// Routes
	router.Get("/health", handler.Health)
	router.Route("/api", func(r chi.Router) {
		r.Post("/calculate", handler.Calculate)
		r.Get("/lights", handler.ListLights)
		r.Get("/lights/{name}", handler.GetLight)
	})
	router.Get("/ws", handler.HandleWS)

	return router
}
