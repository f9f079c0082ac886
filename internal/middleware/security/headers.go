// Package security provides HTTP security headers and lightweight
// request inspection.
package security

import "net/http"

// HeadersConfig holds security header values
type HeadersConfig struct {
	ContentSecurityPolicy   string
	XFrameOptions           string
	XContentTypeOptions     string
	ReferrerPolicy          string
	StrictTransportSecurity string
}

// DefaultHeadersConfig returns headers suited to the HTML interface,
// which loads htmx from the unpkg CDN.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' https://unpkg.com; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data:; " +
			"connect-src 'self'",
		XFrameOptions:           "DENY",
		XContentTypeOptions:     "nosniff",
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	}
}

// HeadersMiddleware sets security headers on every response
type HeadersMiddleware struct {
	config HeadersConfig
}

// NewHeadersMiddleware creates middleware with the given header config
func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{config: config}
}

// Middleware returns the HTTP middleware function
func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.config.ContentSecurityPolicy != "" {
			w.Header().Set("Content-Security-Policy", h.config.ContentSecurityPolicy)
		}
		if h.config.XFrameOptions != "" {
			w.Header().Set("X-Frame-Options", h.config.XFrameOptions)
		}
		if h.config.XContentTypeOptions != "" {
			w.Header().Set("X-Content-Type-Options", h.config.XContentTypeOptions)
		}
		if h.config.ReferrerPolicy != "" {
			w.Header().Set("Referrer-Policy", h.config.ReferrerPolicy)
		}
		// HSTS only makes sense over TLS
		if r.TLS != nil && h.config.StrictTransportSecurity != "" {
			w.Header().Set("Strict-Transport-Security", h.config.StrictTransportSecurity)
		}

		next.ServeHTTP(w, r)
	})
}

// StaticAssetMiddleware sets caching headers for static assets
func StaticAssetMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
