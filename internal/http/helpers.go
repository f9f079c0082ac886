package http

import (
	"fmt"
	stdhttp "net/http"
	"strings"

	"registro/internal/core"
)

// formatEuros renders cents as a euro amount with the Italian decimal
// comma, e.g. 1234 -> "€12,34".
func formatEuros(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d,%02d", sign, cents/100, cents%100)
}

// sanitizeInput strips control characters from form input. Length is
// not capped here; validation owns the business rules.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// filterFromQuery builds the view filter from request query parameters
func filterFromQuery(r *stdhttp.Request) core.Filter {
	q := r.URL.Query()
	return core.Filter{
		Month:    strings.TrimSpace(q.Get("month")),
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("q")),
	}
}
