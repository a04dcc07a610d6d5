package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/emilianovazquez/pedilo-backend/pkg/config"
)

// CORS returns middleware that applies the API's allowed origin policy.
// Storefronts are served from per-store subdomains, so the origin list
// comes from configuration rather than a hardcoded set.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Cart-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
