package restapi

import (
	"net/http"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/app"
)

// responseSecurityHeaders go on every response, errors and preflights included.
var responseSecurityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none';",
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization, " + app.APIKeyHeader + ", " + RequestIDHeader,
	"Access-Control-Max-Age":       "86400",
}

// securityHeaders stamps the fixed headers and answers CORS preflights itself.
// The chat front-end calls server to server; CORS only matters to a browser
// pointed at the debug pages.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for name, value := range responseSecurityHeaders {
			h.Set(name, value)
		}
		if r.Header.Get("Origin") != "" {
			for name, value := range corsHeaders {
				h.Set(name, value)
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
