package http

import (
	"encoding/json"
	stdhttp "net/http"
	"strings"
)

// RequireMethod enforces a single allowed method, answering 405 with an
// Allow header otherwise. Returns true when the request may proceed.
func RequireMethod(w stdhttp.ResponseWriter, r *stdhttp.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	stdhttp.Error(w, "Method not allowed", stdhttp.StatusMethodNotAllowed)
	return false
}

// RequireGET enforces GET
func RequireGET(w stdhttp.ResponseWriter, r *stdhttp.Request) bool {
	return RequireMethod(w, r, stdhttp.MethodGet)
}

// RequirePOST enforces POST
func RequirePOST(w stdhttp.ResponseWriter, r *stdhttp.Request) bool {
	return RequireMethod(w, r, stdhttp.MethodPost)
}

// RequireDeleteOrPOST accepts DELETE and the POST fallback browsers
// without fetch override send. Returns true when the request may proceed.
func RequireDeleteOrPOST(w stdhttp.ResponseWriter, r *stdhttp.Request) bool {
	if r.Method == stdhttp.MethodDelete || r.Method == stdhttp.MethodPost {
		return true
	}
	w.Header().Set("Allow", "DELETE, POST")
	stdhttp.Error(w, "Method not allowed", stdhttp.StatusMethodNotAllowed)
	return false
}

// ParseFormOrFail parses the form body, answering 400 with an inline
// error fragment on malformed input. Returns true when parsing succeeded.
func ParseFormOrFail(w stdhttp.ResponseWriter, r *stdhttp.Request) bool {
	if err := r.ParseForm(); err != nil {
		NewHTMXResponse(w).
			WithStatus(stdhttp.StatusBadRequest).
			SendHTML(`<div class="error">Formato richiesta non valido</div>`)
		return false
	}
	return true
}

// RequestBodyParser extracts fields from JSON or form-encoded bodies,
// so DELETE endpoints can accept an ID either way.
type RequestBodyParser struct {
	r *stdhttp.Request
}

// NewRequestBodyParser wraps a request for body field extraction
func NewRequestBodyParser(r *stdhttp.Request) *RequestBodyParser {
	return &RequestBodyParser{r: r}
}

// Field returns the named field from a JSON object body or, failing
// that, from form values. Empty string when absent.
func (p *RequestBodyParser) Field(name string) string {
	contentType := p.r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(p.r.Body).Decode(&body); err == nil {
			var value string
			if raw, ok := body[name]; ok && json.Unmarshal(raw, &value) == nil {
				return strings.TrimSpace(value)
			}
		}
		return ""
	}

	if err := p.r.ParseForm(); err != nil {
		return ""
	}
	return strings.TrimSpace(p.r.FormValue(name))
}
