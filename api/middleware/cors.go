package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the console frontend to call the API from another origin.
// Dev mode opens the origin list; production restricts it to the public
// base URL.
func CORS(isDev bool, publicBaseURL string) func(http.Handler) http.Handler {
	allowedOrigins := []string{publicBaseURL}
	if isDev {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
