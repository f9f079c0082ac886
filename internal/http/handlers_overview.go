package http

import (
	"bytes"
	stdhttp "net/http"
	"sort"
	"sync/atomic"

	"registro/internal/core"
	"registro/internal/log"
)

// expenseListData feeds the expense list fragment
type expenseListData struct {
	Expenses []core.Expense
	Filter   core.Filter
}

// overviewData feeds the overview fragment
type overviewData struct {
	Summary core.Summary
	Ranked  []core.CategoryTotal // by amount descending for display
	Filter  core.Filter
}

// rankCategories orders the aggregation by amount descending, keeping
// first-appearance order on ties.
func rankCategories(totals []core.CategoryTotal) []core.CategoryTotal {
	ranked := make([]core.CategoryTotal, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})
	return ranked
}

// handleExpenseListFragment renders the filtered expense rows
func (s *Server) handleExpenseListFragment(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !RequireGET(w, r) {
		return
	}

	filter := filterFromQuery(r)
	key := cacheKey(filter)

	log.FromContext(r.Context()).DebugContext(r.Context(), "Expense list requested",
		log.FieldOperation, log.OpList,
		log.FieldMonth, filter.Month,
		log.FieldCategory, filter.Category,
		log.FieldSearch, filter.Search)

	if html, ok := s.listCache.Get(key); ok {
		atomic.AddInt64(&s.metrics.cacheHits, 1)
		s.sendFragment(w, html)
		return
	}
	atomic.AddInt64(&s.metrics.cacheMisses, 1)

	data := expenseListData{
		Expenses: s.expenses.List(r.Context(), filter),
		Filter:   filter,
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "expense_list.html", data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Expense list render failed",
			log.FieldOperation, log.OpRender,
			log.FieldErrorType, log.ErrorTypeInternal,
			log.FieldError, err)
		s.sendFragmentError(w, "Impossibile caricare le spese")
		return
	}

	html := buf.String()
	s.listCache.Set(key, html)
	s.sendFragment(w, html)
}

// handleOverviewFragment renders the summary panel for the active filter
func (s *Server) handleOverviewFragment(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !RequireGET(w, r) {
		return
	}

	filter := filterFromQuery(r)
	key := cacheKey(filter)

	log.FromContext(r.Context()).DebugContext(r.Context(), "Overview requested",
		log.FieldOperation, log.OpSummarize,
		log.FieldMonth, filter.Month,
		log.FieldCategory, filter.Category,
		log.FieldSearch, filter.Search)

	if html, ok := s.overviewCache.Get(key); ok {
		atomic.AddInt64(&s.metrics.cacheHits, 1)
		s.sendFragment(w, html)
		return
	}
	atomic.AddInt64(&s.metrics.cacheMisses, 1)

	summary := s.expenses.Overview(r.Context(), filter)
	data := overviewData{
		Summary: summary,
		Ranked:  rankCategories(summary.ByCategory),
		Filter:  filter,
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "overview.html", data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Overview render failed",
			log.FieldOperation, log.OpRender,
			log.FieldErrorType, log.ErrorTypeInternal,
			log.FieldError, err)
		s.sendFragmentError(w, "Impossibile caricare il riepilogo")
		return
	}

	html := buf.String()
	s.overviewCache.Set(key, html)
	s.sendFragment(w, html)
}

func (s *Server) sendFragment(w stdhttp.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) sendFragmentError(w stdhttp.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(stdhttp.StatusInternalServerError)
	_, _ = w.Write([]byte(`<div class="error">` + message + `</div>`))
}
