// Package core holds the expense domain: record and draft types, money
// parsing, and the pure view computations over the record list.
package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is assigned when a draft arrives without a category.
const DefaultCategory = "Other"

// DefaultCategories seeds the entry form. Stored records may carry any
// label; this list is a UI convenience, not a constraint.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Housing",
	"Entertainment",
	"Health",
	"Shopping",
	DefaultCategory,
}

type (
	// Date is a calendar day; the time of day is always midnight UTC.
	Date struct {
		time.Time
	}

	// Money is an amount in euro cents.
	Money struct {
		Cents int64
	}

	// Expense is a validated, immutable record. Edits replace the
	// record wholesale; there is no in-place mutation.
	Expense struct {
		ID          string
		Description string
		Category    string
		Amount      Money
		Date        Date
		Note        string // empty means absent
		CreatedAt   time.Time
	}

	// Draft carries raw form input before validation. All fields are
	// text because they originate from form controls.
	Draft struct {
		Description string
		Category    string
		Amount      string
		Date        string
		Note        string
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
)

// NewExpense validates a draft and returns the normalized record.
// Rules run in order and the first failure wins: description, amount,
// date, then category defaulting and note trimming. Future dates pass
// validation; the entry form constrains the picker instead.
func NewExpense(d Draft) (Expense, error) {
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return Expense{}, ErrEmptyDescription
	}

	cents, err := ParseDecimalToCents(d.Amount)
	if err != nil {
		return Expense{}, err
	}

	date, err := ParseDate(d.Date)
	if err != nil {
		return Expense{}, err
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = DefaultCategory
	}

	return Expense{
		ID:          uuid.NewString(),
		Description: description,
		Category:    category,
		Amount:      Money{Cents: cents},
		Date:        date,
		Note:        strings.TrimSpace(d.Note),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ParseDate parses a YYYY-MM-DD string into a Date. Anything that is
// not a real calendar date fails with ErrInvalidDate.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String renders the date in its stored YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// YearMonth returns the YYYY-MM prefix month filters compare against.
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}
