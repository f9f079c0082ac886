package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(Config{Level: slog.LevelDebug, Component: component, Handler: handler}), &buf
}

func TestLoggerAttachesComponent(t *testing.T) {
	logger, buf := newBufferLogger(ComponentHTTP)

	logger.Info("ping", "extra", "value")

	out := buf.String()
	if !strings.Contains(out, "component=http") {
		t.Errorf("output %q missing component=http", out)
	}
	if !strings.Contains(out, "extra=value") {
		t.Errorf("output %q missing extra=value", out)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	logger, buf := newBufferLogger(ComponentApp)

	logger.WithComponent(ComponentStore).Warn("slow persist")

	if out := buf.String(); !strings.Contains(out, "component=store") {
		t.Errorf("output %q missing component=store", out)
	}
	if logger.Component() != ComponentApp {
		t.Errorf("Component() = %q, want %q after derived logger", logger.Component(), ComponentApp)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("FromContext returned nil")
	}
	if logger.Component() != ComponentApp {
		t.Errorf("Component() = %q, want %q", logger.Component(), ComponentApp)
	}
}

func TestMiddlewareInjectsLogger(t *testing.T) {
	logger, _ := newBufferLogger(ComponentHTTP)

	var got string
	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context()).Component()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != ComponentHTTP {
		t.Errorf("component from context = %q, want %q", got, ComponentHTTP)
	}
}

func TestFieldsToSliceIsSorted(t *testing.T) {
	fields := NewFields().
		WithRequestID("req_1").
		WithClientIP("203.0.113.9")

	want := []any{FieldClientIP, "203.0.113.9", FieldRequestID, "req_1"}
	if got := fields.ToSlice(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToSlice() = %v, want %v", got, want)
	}
}

func TestFieldsHTTPHelpers(t *testing.T) {
	fields := NewFields().
		WithHTTPRequest(http.MethodPost, "/expenses", "month=2025-04", "curl/8").
		WithHTTPResponse(http.StatusCreated, 12, true)

	wantKeys := []string{
		FieldMethod, FieldPath, FieldQuery, FieldUserAgent,
		FieldStatusCode, FieldDuration, FieldSuccess,
	}
	for _, k := range wantKeys {
		if _, ok := fields[k]; !ok {
			t.Errorf("missing field %q", k)
		}
	}
	if fields[FieldStatusCode] != http.StatusCreated {
		t.Errorf("status_code = %v, want %d", fields[FieldStatusCode], http.StatusCreated)
	}
	if fields[FieldSuccess] != true {
		t.Errorf("success = %v, want true", fields[FieldSuccess])
	}
}
