package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"registro/internal/core"
)

// record is the wire shape of one expense inside the slot document.
// Amounts travel as JSON numbers in euros with two decimals.
type record struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Note        string      `json:"note,omitempty"`
	CreatedAt   string      `json:"createdAt"`
}

// EncodeRecords serializes the full record list into the slot document.
// An empty list encodes as an empty JSON array.
func EncodeRecords(records []core.Expense) (string, error) {
	out := make([]record, 0, len(records))
	for _, e := range records {
		out = append(out, record{
			ID:          e.ID,
			Description: e.Description,
			Category:    e.Category,
			Amount:      json.Number(decimal.New(e.Amount.Cents, -2).StringFixed(2)),
			Date:        e.Date.String(),
			Note:        e.Note,
			CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}
	return string(data), nil
}

// DecodeRecords parses a slot document back into expenses. Entries that
// fail the shape check are dropped and counted; the rest survive. A
// document that is not a JSON array at all fails as a whole.
func DecodeRecords(value string) ([]core.Expense, int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raws); err != nil {
		return nil, 0, fmt.Errorf("decode records: %w", err)
	}

	records := make([]core.Expense, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		e, ok := decodeRecord(raw)
		if !ok {
			dropped++
			continue
		}
		records = append(records, e)
	}
	return records, dropped, nil
}

// decodeRecord checks one entry against the expected shape: required
// string fields, a numeric amount, parseable dates. Unknown fields are
// ignored so documents written by newer versions still load.
func decodeRecord(raw json.RawMessage) (core.Expense, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return core.Expense{}, false
	}

	id, ok := stringField(fields, "id")
	if !ok {
		return core.Expense{}, false
	}
	description, ok := stringField(fields, "description")
	if !ok {
		return core.Expense{}, false
	}
	category, ok := stringField(fields, "category")
	if !ok {
		return core.Expense{}, false
	}

	cents, ok := amountCents(fields["amount"])
	if !ok {
		return core.Expense{}, false
	}

	dateStr, ok := stringField(fields, "date")
	if !ok {
		return core.Expense{}, false
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, false
	}

	createdStr, ok := stringField(fields, "createdAt")
	if !ok {
		return core.Expense{}, false
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return core.Expense{}, false
	}

	note := ""
	if rawNote, present := fields["note"]; present {
		if err := json.Unmarshal(rawNote, &note); err != nil {
			return core.Expense{}, false
		}
	}

	return core.Expense{
		ID:          id,
		Description: description,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Note:        note,
		CreatedAt:   createdAt,
	}, true
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, present := fields[name]
	if !present {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// amountCents accepts only JSON numbers: a quoted "5" is not an amount.
// Fractions beyond cents round half up; values that do not fit in int64
// cents fail the check.
func amountCents(raw json.RawMessage) (int64, bool) {
	token := bytes.TrimSpace(raw)
	if len(token) == 0 || token[0] == '"' {
		return 0, false
	}
	d, err := decimal.NewFromString(string(token))
	if err != nil {
		return 0, false
	}
	cents := d.Shift(2).Round(0).BigInt()
	if !cents.IsInt64() {
		return 0, false
	}
	return cents.Int64(), true
}
