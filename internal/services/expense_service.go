// Package services holds the application layer between HTTP handlers
// and the expense store.
package services

import (
	"context"
	"log/slog"

	"registro/internal/core"
	"registro/internal/log"
	"registro/internal/store"
)

// ExpenseService coordinates expense operations against the store
type ExpenseService struct {
	store *store.Store
}

// NewExpenseService creates a new expense service
func NewExpenseService(st *store.Store) *ExpenseService {
	return &ExpenseService{store: st}
}

// Create validates a draft, records the resulting expense and persists it
func (s *ExpenseService) Create(ctx context.Context, draft core.Draft) (core.Expense, error) {
	expense, err := core.NewExpense(draft)
	if err != nil {
		slog.WarnContext(ctx, "Expense rejected",
			log.FieldComponent, log.ComponentExpense,
			log.FieldOperation, log.OpCreate,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldError, err)
		return core.Expense{}, err
	}

	if err := s.store.Add(ctx, expense); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense created",
		log.FieldComponent, log.ComponentExpense,
		log.FieldOperation, log.OpCreate,
		log.FieldExpenseID, expense.ID,
		log.FieldExpenseDesc, expense.Description,
		log.FieldCategory, expense.Category,
		log.FieldAmountCents, expense.Amount.Cents)
	return expense, nil
}

// Delete removes an expense by ID. Removing an unknown ID is not an
// error; the store state is persisted either way.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense delete processed",
		log.FieldComponent, log.ComponentExpense,
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id,
		"removed", removed)
	return nil
}

// List returns the expenses matching the filter, newest first
func (s *ExpenseService) List(ctx context.Context, filter core.Filter) []core.Expense {
	matched := core.ApplyFilter(s.store.All(), filter)
	return core.SortForDisplay(matched)
}

// Overview computes summary figures over the filtered expenses
func (s *ExpenseService) Overview(ctx context.Context, filter core.Filter) core.Summary {
	return core.Summarize(s.List(ctx, filter), filter.Month)
}

// Categories returns the distinct category labels currently recorded,
// in first-appearance order. Drives the filter dropdown; the entry form
// uses the fixed default taxonomy instead.
func (s *ExpenseService) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.store.All() {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// Count returns the number of recorded expenses
func (s *ExpenseService) Count() int {
	return s.store.Len()
}
