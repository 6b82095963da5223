package repository

import (
	"database/sql"
	"math"
	"strconv"
	"time"

	"github.com/alexanderramin/planline/internal/domain"
)

// ErrNotFound is returned (wrapped) when a row does not exist.
var ErrNotFound = domain.ErrNotFound

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// parseNullableFloat reads a REAL column scanned as text. Malformed or
// non-finite stored values are treated as absent rather than failing the read.
func parseNullableFloat(s sql.NullString) *float64 {
	if !s.Valid || s.String == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s.String, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// nullableFloatToValue converts a *float64 to a value suitable for SQLite storage.
func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func parseTimestamp(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &parseError{field: field, err: err}
	}
	return t, nil
}

type parseError struct {
	field string
	err   error
}

func (e *parseError) Error() string { return "parsing " + e.field + ": " + e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
