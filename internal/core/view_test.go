package core

import (
	"testing"
	"time"
)

// rec builds a record with just the fields the views look at.
func rec(id, date, category, description, note string, cents int64) Expense {
	d, _ := ParseDate(date)
	return Expense{
		ID:          id,
		Description: description,
		Category:    category,
		Amount:      Money{Cents: cents},
		Date:        d,
		Note:        note,
		CreatedAt:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestFilterMatches(t *testing.T) {
	spesa := rec("1", "2024-03-01", "Food", "Pranzo da Mario", "con i colleghi", 1250)

	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"zero filter keeps all", Filter{}, true},
		{"month match", Filter{Month: "2024-03"}, true},
		{"month mismatch", Filter{Month: "2024-04"}, false},
		{"category all", Filter{Category: CategoryAll}, true},
		{"category exact", Filter{Category: "Food"}, true},
		{"category case-sensitive", Filter{Category: "food"}, false},
		{"category mismatch", Filter{Category: "Tech"}, false},
		{"search description case-insensitive", Filter{Search: "MARIO"}, true},
		{"search note", Filter{Search: "colleghi"}, true},
		{"search miss", Filter{Search: "cinema"}, false},
		{"search trims", Filter{Search: "  mario  "}, true},
		{"all criteria together", Filter{Month: "2024-03", Category: "Food", Search: "pranzo"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Matches(spesa); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterAbsentNoteNeverMatchesOnNote(t *testing.T) {
	noNote := rec("1", "2024-03-01", "Food", "Pranzo", "", 1000)
	if (Filter{Search: "colleghi"}).Matches(noNote) {
		t.Fatal("record without note matched a note-only term")
	}
	// The description path still works.
	if !(Filter{Search: "pranzo"}).Matches(noNote) {
		t.Fatal("description match lost when note is absent")
	}
}

func TestApplyFilterPreservesOrder(t *testing.T) {
	records := []Expense{
		rec("1", "2024-03-05", "Food", "a", "", 100),
		rec("2", "2024-04-01", "Food", "b", "", 100),
		rec("3", "2024-03-01", "Tech", "c", "", 100),
	}
	got := ApplyFilter(records, Filter{Month: "2024-03"})
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("ApplyFilter() = %v records, want ids [1 3] in order", ids(got))
	}
	// The input is untouched.
	if len(records) != 3 {
		t.Fatalf("input mutated, len = %d", len(records))
	}
}

func TestSortForDisplayDateDescending(t *testing.T) {
	records := []Expense{
		rec("old", "2024-03-01", "Food", "a", "", 100),
		rec("new", "2024-03-09", "Food", "b", "", 100),
		rec("mid", "2024-03-05", "Food", "c", "", 100),
	}
	got := SortForDisplay(records)
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("SortForDisplay() order = %v, want %v", ids(got), want)
		}
	}
	if records[0].ID != "old" {
		t.Fatal("SortForDisplay mutated its input")
	}
}

func TestSortForDisplayCreatedAtTieBreak(t *testing.T) {
	first := rec("first", "2024-03-01", "Food", "a", "", 100)
	second := rec("second", "2024-03-01", "Food", "b", "", 100)
	first.CreatedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	second.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	got := SortForDisplay([]Expense{first, second})
	if got[0].ID != "second" {
		t.Fatalf("same-day order = %v, want the later CreatedAt first", ids(got))
	}
}

func ids(records []Expense) []string {
	out := make([]string, len(records))
	for i, e := range records {
		out[i] = e.ID
	}
	return out
}
