package http

import (
	"encoding/json"
	"log/slog"
	stdhttp "net/http"
)

// HTMX event names the frontend listens for
const (
	EventExpenseCreated  = "expense:created"
	EventExpenseDeleted  = "expense:deleted"
	EventFormReset       = "form:reset"
	EventOverviewRefresh = "overview:refresh"
	EventNotification    = "show-notification"
)

// Notification is the payload of a show-notification trigger
type Notification struct {
	Message string `json:"message"`
	Type    string `json:"type"` // success, error, info
}

// HTMXResponseBuilder accumulates HX-Trigger events and writes them as
// a single header alongside the response body.
type HTMXResponseBuilder struct {
	w        stdhttp.ResponseWriter
	status   int
	triggers map[string]any
}

// NewHTMXResponse starts building an HTMX response
func NewHTMXResponse(w stdhttp.ResponseWriter) *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		w:        w,
		status:   stdhttp.StatusOK,
		triggers: make(map[string]any),
	}
}

// WithStatus sets the response status code
func (b *HTMXResponseBuilder) WithStatus(status int) *HTMXResponseBuilder {
	b.status = status
	return b
}

// WithTrigger registers an HX-Trigger event with an optional detail payload
func (b *HTMXResponseBuilder) WithTrigger(event string, detail any) *HTMXResponseBuilder {
	b.triggers[event] = detail
	return b
}

// WithExpenseCreated signals that a new expense exists
func (b *HTMXResponseBuilder) WithExpenseCreated(id string) *HTMXResponseBuilder {
	return b.WithTrigger(EventExpenseCreated, map[string]string{"id": id})
}

// WithExpenseDeleted signals that an expense was removed
func (b *HTMXResponseBuilder) WithExpenseDeleted(id string) *HTMXResponseBuilder {
	return b.WithTrigger(EventExpenseDeleted, map[string]string{"id": id})
}

// WithFormReset asks the frontend to clear the entry form
func (b *HTMXResponseBuilder) WithFormReset() *HTMXResponseBuilder {
	return b.WithTrigger(EventFormReset, nil)
}

// WithOverviewRefresh asks the frontend to reload the overview panel
func (b *HTMXResponseBuilder) WithOverviewRefresh() *HTMXResponseBuilder {
	return b.WithTrigger(EventOverviewRefresh, nil)
}

// WithNotification queues a toast message
func (b *HTMXResponseBuilder) WithNotification(message, notificationType string) *HTMXResponseBuilder {
	return b.WithTrigger(EventNotification, Notification{Message: message, Type: notificationType})
}

// WithSuccessNotification queues a success toast
func (b *HTMXResponseBuilder) WithSuccessNotification(message string) *HTMXResponseBuilder {
	return b.WithNotification(message, "success")
}

// WithErrorNotification queues an error toast
func (b *HTMXResponseBuilder) WithErrorNotification(message string) *HTMXResponseBuilder {
	return b.WithNotification(message, "error")
}

// SendHTML writes the trigger header, status and HTML body
func (b *HTMXResponseBuilder) SendHTML(html string) {
	b.writeTriggerHeader()
	b.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	b.w.WriteHeader(b.status)
	if _, err := b.w.Write([]byte(html)); err != nil {
		slog.Debug("Response write failed", "error", err)
	}
}

// Send writes the trigger header and status with no body
func (b *HTMXResponseBuilder) Send() {
	b.writeTriggerHeader()
	b.w.WriteHeader(b.status)
}

func (b *HTMXResponseBuilder) writeTriggerHeader() {
	if len(b.triggers) == 0 {
		return
	}
	payload, err := json.Marshal(b.triggers)
	if err != nil {
		slog.Warn("HX-Trigger marshal failed", "error", err)
		return
	}
	b.w.Header().Set("HX-Trigger", string(payload))
}
