package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"sync/atomic"
	"time"
)

// handleHealthz reports process liveness
func (s *Server) handleHealthz(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !RequireGET(w, r) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReadyz reports whether the server can actually serve traffic
func (s *Server) handleReadyz(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !RequireGET(w, r) {
		return
	}

	checks := map[string]string{
		"templates":    "ok",
		"store":        "ok",
		"caches":       "ok",
		"rate_limiter": "ok",
	}
	ready := true

	if s.templates == nil || s.templates.Lookup("index.html") == nil {
		checks["templates"] = "missing"
		ready = false
	}
	if s.expenses == nil {
		checks["store"] = "missing"
		ready = false
	}
	if s.listCache == nil || s.overviewCache == nil {
		checks["caches"] = "missing"
		ready = false
	}
	if s.rateLimiter == nil {
		checks["rate_limiter"] = "missing"
		ready = false
	}

	status := stdhttp.StatusOK
	overall := "ready"
	if !ready {
		status = stdhttp.StatusServiceUnavailable
		overall = "not ready"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": overall,
		"checks": checks,
	})
}

// handleMetrics exposes counters in Prometheus text exposition format
func (s *Server) handleMetrics(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !RequireGET(w, r) {
		return
	}

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()
	uptime := time.Since(s.metrics.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	fmt.Fprintf(w, "# HELP registro_http_requests_total Total HTTP requests processed.\n")
	fmt.Fprintf(w, "# TYPE registro_http_requests_total counter\n")
	fmt.Fprintf(w, "registro_http_requests_total %d\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP registro_http_request_duration_avg_us Average request duration in microseconds.\n")
	fmt.Fprintf(w, "# TYPE registro_http_request_duration_avg_us gauge\n")
	fmt.Fprintf(w, "registro_http_request_duration_avg_us %d\n", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP registro_expenses_total Current number of recorded expenses.\n")
	fmt.Fprintf(w, "# TYPE registro_expenses_total gauge\n")
	fmt.Fprintf(w, "registro_expenses_total %d\n", s.expenses.Count())

	fmt.Fprintf(w, "# HELP registro_expenses_created_total Expenses created since start.\n")
	fmt.Fprintf(w, "# TYPE registro_expenses_created_total counter\n")
	fmt.Fprintf(w, "registro_expenses_created_total %d\n", atomic.LoadInt64(&s.metrics.expensesCreated))

	fmt.Fprintf(w, "# HELP registro_expenses_deleted_total Expense deletions processed since start.\n")
	fmt.Fprintf(w, "# TYPE registro_expenses_deleted_total counter\n")
	fmt.Fprintf(w, "registro_expenses_deleted_total %d\n", atomic.LoadInt64(&s.metrics.expensesDeleted))

	fmt.Fprintf(w, "# HELP registro_fragment_cache_hits_total Fragment cache hits.\n")
	fmt.Fprintf(w, "# TYPE registro_fragment_cache_hits_total counter\n")
	fmt.Fprintf(w, "registro_fragment_cache_hits_total %d\n", atomic.LoadInt64(&s.metrics.cacheHits))

	fmt.Fprintf(w, "# HELP registro_fragment_cache_misses_total Fragment cache misses.\n")
	fmt.Fprintf(w, "# TYPE registro_fragment_cache_misses_total counter\n")
	fmt.Fprintf(w, "registro_fragment_cache_misses_total %d\n", atomic.LoadInt64(&s.metrics.cacheMisses))

	fmt.Fprintf(w, "# HELP registro_rate_limit_hits_total Requests rejected by the rate limiter.\n")
	fmt.Fprintf(w, "# TYPE registro_rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "registro_rate_limit_hits_total %d\n", rateMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP registro_suspicious_requests_total Requests matching probe patterns.\n")
	fmt.Fprintf(w, "# TYPE registro_suspicious_requests_total counter\n")
	fmt.Fprintf(w, "registro_suspicious_requests_total %d\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP registro_uptime_seconds Seconds since the server started.\n")
	fmt.Fprintf(w, "# TYPE registro_uptime_seconds gauge\n")
	fmt.Fprintf(w, "registro_uptime_seconds %.0f\n", uptime)
}
