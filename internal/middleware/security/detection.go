package security

import (
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"registro/internal/log"
)

// Detector resolves client IPs behind trusted proxies and flags
// requests that look like probing attempts.
type Detector struct {
	trustedProxies []*net.IPNet

	suspiciousRequests int64
}

// DetectorMetrics tracks detection activity
type DetectorMetrics struct {
	SuspiciousRequests int64
}

// suspiciousPatterns are path/query fragments common to automated scanners
var suspiciousPatterns = []string{
	"../",
	"..\\",
	"/etc/passwd",
	"<script",
	"union select",
	"wp-admin",
	".php",
	".env",
}

// NewDetector creates a detector. Proxy headers are only honored for
// requests arriving from the given CIDR ranges.
func NewDetector(trustedProxyCIDRs []string) *Detector {
	d := &Detector{}
	for _, cidr := range trustedProxyCIDRs {
		d.AddTrustedProxy(cidr)
	}
	return d
}

// AddTrustedProxy registers a CIDR range whose proxy headers are trusted
func (d *Detector) AddTrustedProxy(cidr string) {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		slog.Warn("Ignoring invalid trusted proxy CIDR",
			log.FieldComponent, log.ComponentSecurity,
			log.FieldOperation, log.OpParse,
			"cidr", cidr,
			log.FieldError, err)
		return
	}
	d.trustedProxies = append(d.trustedProxies, network)
}

// ExtractClientIP returns the client IP for a request. X-Forwarded-For
// and X-Real-IP are honored only when the direct peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	remoteIP := remoteAddrIP(r.RemoteAddr)

	if !d.isTrustedProxy(remoteIP) {
		return remoteIP
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The first entry is the originating client
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); net.ParseIP(ip) != nil {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if net.ParseIP(realIP) != nil {
			return realIP
		}
	}

	return remoteIP
}

// CheckRequest flags requests whose path or query match known probe
// patterns. It never blocks; callers decide what to do with the signal.
func (d *Detector) CheckRequest(r *http.Request) bool {
	// Scanner payloads usually arrive percent-encoded in the query.
	query := r.URL.RawQuery
	if decoded, err := url.QueryUnescape(query); err == nil {
		query = decoded
	}
	target := strings.ToLower(r.URL.Path + "?" + query)

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(target, pattern) {
			atomic.AddInt64(&d.suspiciousRequests, 1)
			slog.WarnContext(r.Context(), "Suspicious request detected",
				log.FieldComponent, log.ComponentSecurity,
				log.FieldClientIP, d.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				"pattern", pattern)
			return true
		}
	}
	return false
}

// GetMetrics returns current detection metrics
func (d *Detector) GetMetrics() DetectorMetrics {
	return DetectorMetrics{
		SuspiciousRequests: atomic.LoadInt64(&d.suspiciousRequests),
	}
}

func (d *Detector) isTrustedProxy(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range d.trustedProxies {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}

// remoteAddrIP strips the port from an address like "1.2.3.4:5678"
func remoteAddrIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
