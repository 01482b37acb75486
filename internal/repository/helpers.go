package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a time.Time using the given layout.
// Returns the zero time if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableTimeToString converts a time.Time to a storable value.
// Returns nil (SQL NULL) for the zero time.
func nullableTimeToString(t time.Time, layout string) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(layout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %w", column, err)
	}
	return d, nil
}

func encodeNotes(notes []string) (string, error) {
	if len(notes) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(notes)
	if err != nil {
		return "", fmt.Errorf("encoding notes: %w", err)
	}
	return string(b), nil
}

func decodeNotes(s string) ([]string, error) {
	var notes []string
	if err := json.Unmarshal([]byte(s), &notes); err != nil {
		return nil, fmt.Errorf("decoding notes: %w", err)
	}
	if len(notes) == 0 {
		return nil, nil
	}
	return notes, nil
}
