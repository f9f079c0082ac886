package services

import (
	"context"
	"errors"
	"testing"

	"registro/internal/core"
	"registro/internal/store"
)

// nullSnap satisfies store.Snapshotter without touching any backend.
type nullSnap struct {
	saveErr error
}

func (n *nullSnap) Load(ctx context.Context) []core.Expense { return nil }

func (n *nullSnap) Save(ctx context.Context, records []core.Expense) error { return n.saveErr }

func newTestService() *ExpenseService {
	return NewExpenseService(store.New(&nullSnap{}))
}

func validDraft() core.Draft {
	return core.Draft{
		Description: "Groceries",
		Category:    "Food",
		Amount:      "12.30",
		Date:        "2025-03-10",
	}
}

func TestCreate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	expense, err := svc.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if expense.ID == "" {
		t.Error("Create() returned expense without ID")
	}
	if expense.Amount.Cents != 1230 {
		t.Errorf("Amount.Cents = %d, want 1230", expense.Amount.Cents)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestCreateValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*core.Draft)
		wantErr error
	}{
		{
			name:    "blank description",
			mutate:  func(d *core.Draft) { d.Description = "   " },
			wantErr: core.ErrEmptyDescription,
		},
		{
			name:    "unparseable amount",
			mutate:  func(d *core.Draft) { d.Amount = "abc" },
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "impossible date",
			mutate:  func(d *core.Draft) { d.Date = "2025-02-30" },
			wantErr: core.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			draft := validDraft()
			tt.mutate(&draft)

			_, err := svc.Create(context.Background(), draft)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if svc.Count() != 0 {
				t.Errorf("Count() = %d after rejected draft, want 0", svc.Count())
			}
		})
	}
}

func TestCreatePersistFailure(t *testing.T) {
	svc := NewExpenseService(store.New(&nullSnap{saveErr: errors.New("disk full")}))

	_, err := svc.Create(context.Background(), validDraft())
	if err == nil {
		t.Fatal("Create() expected persist error")
	}
	// The record stays in memory even when the write-through fails.
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	expense, err := svc.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, expense.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d after delete, want 0", svc.Count())
	}

	// Deleting the same ID again succeeds quietly.
	if err := svc.Delete(ctx, expense.ID); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	drafts := []core.Draft{
		{Description: "Rent", Category: "Housing", Amount: "800", Date: "2025-03-01"},
		{Description: "Cinema", Category: "Entertainment", Amount: "9.50", Date: "2025-03-15"},
		{Description: "Old groceries", Category: "Food", Amount: "42", Date: "2025-02-20"},
	}
	for _, d := range drafts {
		if _, err := svc.Create(ctx, d); err != nil {
			t.Fatalf("Create(%q) error = %v", d.Description, err)
		}
	}

	march := svc.List(ctx, core.Filter{Month: "2025-03"})
	if len(march) != 2 {
		t.Fatalf("List(month=2025-03) returned %d records, want 2", len(march))
	}
	if march[0].Description != "Cinema" || march[1].Description != "Rent" {
		t.Errorf("order = [%s %s], want date descending [Cinema Rent]",
			march[0].Description, march[1].Description)
	}

	food := svc.List(ctx, core.Filter{Category: "Food"})
	if len(food) != 1 || food[0].Description != "Old groceries" {
		t.Errorf("List(category=Food) = %v, want the single Food record", food)
	}

	all := svc.List(ctx, core.Filter{})
	if len(all) != 3 {
		t.Errorf("List(zero filter) returned %d records, want 3", len(all))
	}
}

func TestCategories(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, d := range []core.Draft{
		{Description: "Rent", Category: "Housing", Amount: "800", Date: "2025-04-01"},
		{Description: "Groceries", Category: "Food", Amount: "100", Date: "2025-04-02"},
		{Description: "More rent", Category: "Housing", Amount: "800", Date: "2025-05-01"},
	} {
		if _, err := svc.Create(ctx, d); err != nil {
			t.Fatalf("Create(%q) error = %v", d.Description, err)
		}
	}

	got := svc.Categories()
	// Store order is newest first, so Housing (May) leads.
	want := []string{"Housing", "Food"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOverview(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, d := range []core.Draft{
		{Description: "Rent", Category: "Housing", Amount: "800", Date: "2025-04-01"},
		{Description: "Groceries", Category: "Food", Amount: "100", Date: "2025-04-02"},
		{Description: "More groceries", Category: "Food", Amount: "50", Date: "2025-04-03"},
	} {
		if _, err := svc.Create(ctx, d); err != nil {
			t.Fatalf("Create(%q) error = %v", d.Description, err)
		}
	}

	summary := svc.Overview(ctx, core.Filter{Month: "2025-04"})
	if summary.Count != 3 {
		t.Errorf("Count = %d, want 3", summary.Count)
	}
	if summary.Total.Cents != 95000 {
		t.Errorf("Total.Cents = %d, want 95000", summary.Total.Cents)
	}
	if summary.TopCategory == nil || summary.TopCategory.Name != "Housing" {
		t.Errorf("TopCategory = %v, want Housing", summary.TopCategory)
	}
	// 95000 cents over April's 30 days
	if summary.DailyAverage.Cents != 3167 {
		t.Errorf("DailyAverage.Cents = %d, want 3167", summary.DailyAverage.Cents)
	}
}
