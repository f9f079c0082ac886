package http

import (
	"bytes"
	"errors"
	stdhttp "net/http"
	"strings"
	"sync/atomic"
	"time"

	"registro/internal/core"
	"registro/internal/log"
)

// indexData feeds the page shell template
type indexData struct {
	Categories       []string // fixed taxonomy for the entry form
	FilterCategories []string // labels actually recorded, for the filter
	CurrentMonth     string
	Today            string
}

// handleIndex renders the page shell; fragments load over HTMX
func (s *Server) handleIndex(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if r.URL.Path != "/" {
		stdhttp.NotFound(w, r)
		return
	}
	if !RequireGET(w, r) {
		return
	}

	now := time.Now()
	data := indexData{
		Categories:       core.DefaultCategories,
		FilterCategories: s.expenses.Categories(),
		CurrentMonth:     now.Format("2006-01"),
		Today:            now.Format("2006-01-02"),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Index render failed",
			log.FieldOperation, log.OpRender,
			log.FieldErrorType, log.ErrorTypeInternal,
			log.FieldError, err)
		stdhttp.Error(w, "Internal server error", stdhttp.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleExpenses accepts new expenses on POST
func (s *Server) handleExpenses(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !RequirePOST(w, r) {
		return
	}
	s.createExpense(w, r)
}

// createExpense validates the form and records the expense
func (s *Server) createExpense(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !ParseFormOrFail(w, r) {
		return
	}

	draft := core.Draft{
		Description: sanitizeInput(r.FormValue("description")),
		Category:    sanitizeInput(r.FormValue("category")),
		Amount:      sanitizeInput(r.FormValue("amount")),
		Date:        sanitizeInput(r.FormValue("date")),
		Note:        sanitizeInput(r.FormValue("note")),
	}

	expense, err := s.expenses.Create(r.Context(), draft)
	if err != nil {
		s.renderCreateError(w, r, err)
		return
	}

	s.invalidateViewCaches()
	atomic.AddInt64(&s.metrics.expensesCreated, 1)

	NewHTMXResponse(w).
		WithStatus(stdhttp.StatusCreated).
		WithExpenseCreated(expense.ID).
		WithFormReset().
		WithOverviewRefresh().
		WithSuccessNotification("Spesa registrata").
		SendHTML(`<div class="success">Spesa registrata</div>`)
}

// renderCreateError maps validation failures to inline form errors
func (s *Server) renderCreateError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	message := ""
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		message = "Descrizione obbligatoria"
	case errors.Is(err, core.ErrInvalidAmount):
		message = "Importo non valido"
	case errors.Is(err, core.ErrInvalidDate):
		message = "Data non valida"
	}

	if message != "" {
		NewHTMXResponse(w).
			WithStatus(stdhttp.StatusUnprocessableEntity).
			SendHTML(`<div class="error">` + message + `</div>`)
		return
	}

	log.FromContext(r.Context()).ErrorContext(r.Context(), "Expense create failed",
		log.FieldOperation, log.OpPersist,
		log.FieldErrorType, log.ErrorTypeStorage,
		log.FieldError, err)
	NewHTMXResponse(w).
		WithStatus(stdhttp.StatusInternalServerError).
		WithErrorNotification("Salvataggio non riuscito").
		SendHTML(`<div class="error">Salvataggio non riuscito</div>`)
}

// handleExpenseByID deletes the expense named in the path. The ID may
// also arrive in the body when the client cannot set the path.
func (s *Server) handleExpenseByID(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !RequireDeleteOrPOST(w, r) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/expenses/")
	id = strings.TrimSpace(strings.Trim(id, "/"))
	if id == "" {
		id = NewRequestBodyParser(r).Field("id")
	}
	if id == "" {
		NewHTMXResponse(w).
			WithStatus(stdhttp.StatusBadRequest).
			SendHTML(`<div class="error">ID spesa mancante</div>`)
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Expense delete failed",
			log.FieldOperation, log.OpPersist,
			log.FieldErrorType, log.ErrorTypeStorage,
			log.FieldExpenseID, id,
			log.FieldError, err)
		NewHTMXResponse(w).
			WithStatus(stdhttp.StatusInternalServerError).
			WithErrorNotification("Eliminazione non riuscita").
			SendHTML(`<div class="error">Eliminazione non riuscita</div>`)
		return
	}

	s.invalidateViewCaches()
	atomic.AddInt64(&s.metrics.expensesDeleted, 1)

	NewHTMXResponse(w).
		WithStatus(stdhttp.StatusOK).
		WithExpenseDeleted(id).
		WithOverviewRefresh().
		WithSuccessNotification("Spesa eliminata").
		Send()
}
