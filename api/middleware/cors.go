package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",         // local dev storefront
	"https://kiranakart.in",         // production storefront
	"https://www.kiranakart.in",     // www alias
	"https://kiranakart.vercel.app", // preview deployments
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-Session", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Client-Session"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
