package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"github.com/rogerio-castellano/catalog-sync/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-sync/internal/http/rate_limiter"
	"golang.org/x/time/rate"
)

// NewRouter builds the local API. Write routes are rate limited per client
// and, when cfg.JWTSecret is set, need a bearer token.
func NewRouter(cfg config.ServerConfig) http.Handler {
	rl.Configure(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	handlers.SetUploadDir(cfg.UploadDir)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.HealthHandler)
	r.Get("/status", handlers.StatusHandler)
	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/stream", handlers.StreamProductsHandler)
	r.Get("/sync/history", handlers.SyncHistoryHandler)

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware)
		if cfg.JWTSecret != "" {
			r.Use(AuthMiddleware([]byte(cfg.JWTSecret)))
		}
		r.Post("/products", handlers.CreateProductHandler)
		r.Post("/products/refresh", handlers.RefreshProductsHandler)
		r.Post("/sync", handlers.SyncHandler)
		r.Put("/search", handlers.UpdateSearchHandler)
	})
	return r
}
