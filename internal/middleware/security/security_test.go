package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHeadersMiddleware(t *testing.T) {
	mw := NewHeadersMiddleware(DefaultHeadersConfig())
	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	checks := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, want := range checks {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	csp := rec.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Error("Content-Security-Policy not set")
	}

	// No TLS on the request, so no HSTS
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Strict-Transport-Security = %q, want empty on plain HTTP", got)
	}
}

func TestStaticAssetMiddleware(t *testing.T) {
	handler := StaticAssetMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q, want %q", got, "public, max-age=3600")
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name           string
		remoteAddr     string
		forwardedFor   string
		realIP         string
		trustedProxies []string
		want           string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:4321",
			want:       "203.0.113.7",
		},
		{
			name:         "forwarded header from untrusted peer ignored",
			remoteAddr:   "203.0.113.7:4321",
			forwardedFor: "198.51.100.1",
			want:         "203.0.113.7",
		},
		{
			name:           "forwarded header from trusted proxy honored",
			remoteAddr:     "10.0.0.5:4321",
			forwardedFor:   "198.51.100.1, 10.0.0.5",
			trustedProxies: []string{"10.0.0.0/8"},
			want:           "198.51.100.1",
		},
		{
			name:           "real IP header from trusted proxy",
			remoteAddr:     "10.0.0.5:4321",
			realIP:         "198.51.100.2",
			trustedProxies: []string{"10.0.0.0/8"},
			want:           "198.51.100.2",
		},
		{
			name:           "garbage forwarded value falls back to peer",
			remoteAddr:     "10.0.0.5:4321",
			forwardedFor:   "not-an-ip",
			trustedProxies: []string{"10.0.0.0/8"},
			want:           "10.0.0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.trustedProxies)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := d.ExtractClientIP(req); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckRequest(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		target string
		want   bool
	}{
		{"/expenses", false},
		{"/ui/expense-list?month=2025-01", false},
		{"/../../etc/passwd", true},
		{"/index.php", true},
		{"/search?q=%3Cscript%3E", true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		if got := d.CheckRequest(req); got != tt.want {
			t.Errorf("CheckRequest(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}

	metrics := d.GetMetrics()
	if metrics.SuspiciousRequests != 3 {
		t.Errorf("SuspiciousRequests = %d, want 3", metrics.SuspiciousRequests)
	}
}

func TestAddTrustedProxyInvalidCIDR(t *testing.T) {
	d := NewDetector(nil)
	d.AddTrustedProxy("not a cidr")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:4321"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")

	// Invalid CIDR was ignored, so the peer is untrusted
	if got := d.ExtractClientIP(req); got != "10.0.0.5" {
		t.Errorf("ExtractClientIP() = %q, want %q", got, "10.0.0.5")
	}
}
