package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseTriggers(t *testing.T) {
	rec := httptest.NewRecorder()

	NewHTMXResponse(rec).
		WithStatus(stdhttp.StatusCreated).
		WithExpenseCreated("abc-123").
		WithFormReset().
		WithSuccessNotification("Spesa registrata").
		SendHTML(`<div class="success">Spesa registrata</div>`)

	if rec.Code != stdhttp.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, stdhttp.StatusCreated)
	}

	var triggers map[string]json.RawMessage
	header := rec.Header().Get("HX-Trigger")
	if err := json.Unmarshal([]byte(header), &triggers); err != nil {
		t.Fatalf("HX-Trigger %q is not JSON: %v", header, err)
	}

	for _, event := range []string{EventExpenseCreated, EventFormReset, EventNotification} {
		if _, ok := triggers[event]; !ok {
			t.Errorf("HX-Trigger missing event %q", event)
		}
	}

	var created map[string]string
	if err := json.Unmarshal(triggers[EventExpenseCreated], &created); err != nil {
		t.Fatalf("created detail is not an object: %v", err)
	}
	if created["id"] != "abc-123" {
		t.Errorf("created id = %q, want abc-123", created["id"])
	}

	var notification Notification
	if err := json.Unmarshal(triggers[EventNotification], &notification); err != nil {
		t.Fatalf("notification detail: %v", err)
	}
	if notification.Type != "success" || notification.Message != "Spesa registrata" {
		t.Errorf("notification = %+v, want success toast", notification)
	}

	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", got)
	}
}

func TestHTMXResponseNoTriggers(t *testing.T) {
	rec := httptest.NewRecorder()

	NewHTMXResponse(rec).WithStatus(stdhttp.StatusOK).Send()

	if got := rec.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("HX-Trigger = %q, want unset", got)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, stdhttp.StatusOK)
	}
}
