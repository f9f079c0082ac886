// Package http serves the HTML interface and the HTMX fragment
// endpoints over the expense service.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	stdhttp "net/http"
	"sync"
	"sync/atomic"
	"time"

	"registro/internal/cache"
	"registro/internal/core"
	"registro/internal/log"
	"registro/internal/middleware/ratelimit"
	"registro/internal/middleware/security"
	"registro/internal/middleware/trace"
	"registro/internal/services"
	"registro/web"
)

// Options tunes the server's caching and rate limiting
type Options struct {
	CacheTTL          time.Duration
	RequestsPerMinute int
}

// DefaultOptions returns production defaults
func DefaultOptions() Options {
	return Options{
		CacheTTL:          2 * time.Minute,
		RequestsPerMinute: 60,
	}
}

// Server wires handlers, middleware, caches and templates around the
// expense service.
type Server struct {
	stdhttp.Server

	expenses  *services.ExpenseService
	templates *template.Template
	logger    *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityHeaders  *security.HeadersMiddleware
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	listCache     *cache.LRUCache[string]
	overviewCache *cache.LRUCache[string]
	cacheManager  *cache.Manager

	metrics      appMetrics
	shutdownOnce sync.Once
}

// appMetrics tracks application counters exposed on /metrics
type appMetrics struct {
	expensesCreated int64
	expensesDeleted int64
	cacheHits       int64
	cacheMisses     int64
	startTime       time.Time
}

// NewServer builds the full handler chain. The template set is parsed
// from the embedded filesystem, so the binary carries its own UI.
func NewServer(addr string, expenses *services.ExpenseService, opts Options) (*Server, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"euros": formatEuros,
	}).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := log.New(log.Config{Component: log.ComponentHTTP})

	detector := security.NewDetector([]string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "127.0.0.0/8"})

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.RequestsPerMinute = opts.RequestsPerMinute
	limiter := ratelimit.NewLimiter(limiterCfg)

	s := &Server{
		expenses:         expenses,
		templates:        templates,
		logger:           logger,
		rateLimiter:      limiter,
		securityHeaders:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		listCache:        cache.NewLRUCache[string](128, opts.CacheTTL),
		overviewCache:    cache.NewLRUCache[string](128, opts.CacheTTL),
		metrics:          appMetrics{startTime: time.Now()},
	}

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.listCache)
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(5 * time.Minute)

	s.Server = stdhttp.Server{
		Addr:    addr,
		Handler: s.routes(),
	}

	return s, nil
}

// routes assembles the mux and the middleware chain
func (s *Server) routes() stdhttp.Handler {
	mux := stdhttp.NewServeMux()

	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		mux.Handle("/static/", security.StaticAssetMiddleware(
			stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.FS(staticFS)))))
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/expenses", s.handleExpenses)
	mux.HandleFunc("/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/ui/expense-list", s.handleExpenseListFragment)
	mux.HandleFunc("/ui/overview", s.handleOverviewFragment)

	limited := s.rateLimiter.Middleware(
		s.securityDetector.ExtractClientIP,
		func(r *stdhttp.Request, clientIP string) {
			s.logger.WarnContext(r.Context(), "Mutation rate limited",
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
		},
	)

	// Only mutations are rate limited; reads stay cheap.
	var handler stdhttp.Handler = stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		s.securityDetector.CheckRequest(r)
		if r.Method == stdhttp.MethodPost || r.Method == stdhttp.MethodDelete {
			limited(mux).ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	handler = log.Middleware(s.logger)(handler)
	handler = s.securityHeaders.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	return handler
}

// invalidateViewCaches drops every cached fragment after a mutation
func (s *Server) invalidateViewCaches() {
	s.listCache.Purge()
	s.overviewCache.Purge()
}

// cacheKey builds a stable cache key from the active filter
func cacheKey(f core.Filter) string {
	return f.Month + "|" + f.Category + "|" + f.Search
}

// Shutdown stops background workers and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
