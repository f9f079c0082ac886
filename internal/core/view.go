package core

import (
	"sort"
	"strings"
)

// CategoryAll selects every category when set on a Filter.
const CategoryAll = "all"

// Filter narrows the record list for the derived views. The zero value
// selects everything.
type Filter struct {
	Month    string // YYYY-MM, empty keeps all months
	Category string // exact label, "all" or empty keeps all
	Search   string // case-insensitive substring over description and note
}

// Matches reports whether e passes every criterion of f. Criteria apply
// in order: month prefix, category equality, then text search. A record
// with an absent note can only match the search on its description.
func (f Filter) Matches(e Expense) bool {
	if f.Month != "" && !strings.HasPrefix(e.Date.String(), f.Month) {
		return false
	}
	if f.Category != "" && f.Category != CategoryAll && e.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Note), q) {
			return false
		}
	}
	return true
}

// ApplyFilter returns the records matching f, preserving their order.
func ApplyFilter(records []Expense, f Filter) []Expense {
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortForDisplay returns a copy sorted by date descending, breaking
// ties on creation time descending so same-day entries keep the
// most-recently-entered-first order.
func SortForDisplay(records []Expense) []Expense {
	out := make([]Expense, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
