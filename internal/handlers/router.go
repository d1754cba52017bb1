package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	mW "github.com/todamoon/terminal/internal/middleware"
)

type RouterConfig struct {
	JWTSecret string
	Status    *StatusHandler
	Tokens    *TokenHandler
}

// NewRouter serves the operator API. Token issuing is only mounted when a
// JWT secret is configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", cfg.Status.Health)
	r.Get("/status", cfg.Status.Status)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if cfg.JWTSecret != "" && cfg.Tokens != nil {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(mW.AuthMiddleware(cfg.JWTSecret))
			r.Post("/tokens", cfg.Tokens.IssueToken)
		})
	}

	return r
}
