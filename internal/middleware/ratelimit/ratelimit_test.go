package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(requestsPerMinute int) Config {
	return Config{
		RequestsPerMinute: requestsPerMinute,
		CleanupInterval:   time.Hour,
	}
}

func TestLimiterAllow(t *testing.T) {
	rl := NewLimiter(testConfig(3))
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if rl.Allow("client-a") {
		t.Error("request 4 allowed, want denied")
	}

	// A different client has its own window
	if !rl.Allow("client-b") {
		t.Error("client-b denied, want allowed")
	}
}

func TestLimiterMetrics(t *testing.T) {
	rl := NewLimiter(testConfig(1))
	defer rl.Stop()

	rl.Allow("client-a")
	rl.Allow("client-a")
	rl.Allow("client-a")

	metrics := rl.GetMetrics()
	if metrics.TotalHits != 2 {
		t.Errorf("TotalHits = %d, want 2", metrics.TotalHits)
	}
	if metrics.ClientCount != 1 {
		t.Errorf("ClientCount = %d, want 1", metrics.ClientCount)
	}
}

func TestLimiterActiveClients(t *testing.T) {
	rl := NewLimiter(testConfig(10))
	defer rl.Stop()

	rl.Allow("a")
	rl.Allow("b")
	rl.Allow("b")

	if got := rl.ActiveClients(); got != 2 {
		t.Errorf("ActiveClients() = %d, want 2", got)
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	rl := NewLimiter(testConfig(2))
	defer rl.Stop()

	limited := 0
	mw := rl.Middleware(
		func(r *http.Request) string { return "1.2.3.4" },
		func(r *http.Request, clientIP string) { limited++ },
	)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/expenses", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			if got := rec.Header().Get("Retry-After"); got != "60" {
				t.Errorf("Retry-After = %q, want %q", got, "60")
			}
		}
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i+1, codes[i], want[i])
		}
	}
	if limited != 1 {
		t.Errorf("onLimit called %d times, want 1", limited)
	}
}
