package core

import "time"

type (
	// CategoryTotal is an amount aggregated under one category label.
	CategoryTotal struct {
		Name   string
		Amount Money
	}

	// Summary holds the aggregations for one filtered view.
	Summary struct {
		Count        int
		Total        Money
		ByCategory   []CategoryTotal // first-appearance order
		DailyAverage Money
		TopCategory  *CategoryTotal // nil when no records
	}
)

// fallbackDays divides the daily average when no month narrows the
// view, regardless of the real date span of the records.
const fallbackDays = 30

// Summarize aggregates the records as given; callers pass the filtered,
// display-sorted list, so category first-appearance order follows the
// timeline. month is the active YYYY-MM filter, empty for none; a month
// that does not parse falls back to the fixed 30-day divisor.
func Summarize(records []Expense, month string) Summary {
	s := Summary{Count: len(records)}

	totals := make(map[string]int64, 8)
	seen := make(map[string]bool, 8)
	var order []string
	for _, e := range records {
		s.Total.Cents += e.Amount.Cents
		if !seen[e.Category] {
			seen[e.Category] = true
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount.Cents
	}

	s.ByCategory = make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Name: name, Amount: Money{Cents: totals[name]}})
	}

	days := int64(fallbackDays)
	if month != "" {
		if n, ok := daysInMonth(month); ok {
			days = int64(n)
		}
	}
	s.DailyAverage = Money{Cents: divRoundHalfUp(s.Total.Cents, days)}

	// Strict greater-than keeps the first-seen category on ties.
	for i := range s.ByCategory {
		if s.TopCategory == nil || s.ByCategory[i].Amount.Cents > s.TopCategory.Amount.Cents {
			s.TopCategory = &s.ByCategory[i]
		}
	}

	return s
}

// daysInMonth returns the calendar length of a YYYY-MM month,
// accounting for leap years.
func daysInMonth(month string) (int, bool) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, false
	}
	// Day zero of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(), true
}

// divRoundHalfUp divides cents by days rounding half-up, the same
// rounding the amount parser applies (half away from zero should a
// negative total ever reach here).
func divRoundHalfUp(cents, days int64) int64 {
	if days <= 0 {
		return 0
	}
	if cents < 0 {
		return -((-cents)*2 + days) / (2 * days)
	}
	return (cents*2 + days) / (2 * days)
}
