package handlers

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets baseline security headers for all responses.
func (h *Handlers) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// The website posts here from another origin.
		headers.Set("Cross-Origin-Resource-Policy", "cross-origin")

		next.ServeHTTP(w, r)
	})
}

// CORS allows the website to post submissions from the browser.
func (h *Handlers) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		origin := allowedOrigin(h.allowedOriginSetting(), r.Header.Get("Origin"))
		if origin != "" {
			headers.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				headers.Add("Vary", "Origin")
			}
		}
		headers.Set("Access-Control-Allow-Headers", "Content-Type")
		headers.Set("Access-Control-Allow-Methods", http.MethodPost)

		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) allowedOriginSetting() string {
	if h.config == nil {
		return "*"
	}
	return strings.TrimSpace(h.config.CORSAllowedOrigin)
}

// allowedOrigin returns the Access-Control-Allow-Origin value for a request, or "" to omit it.
func allowedOrigin(setting, requestOrigin string) string {
	if setting == "" || setting == "*" {
		return "*"
	}
	if strings.EqualFold(strings.TrimRight(setting, "/"), strings.TrimSpace(requestOrigin)) {
		return setting
	}
	return ""
}
