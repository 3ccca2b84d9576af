package repository

import (
	"database/sql"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the
// given layout. Returns nil if the value is NULL, empty, or fails to parse.
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

// nullableStatusToString converts a *ItemStatus to a value suitable for
// SQLite storage. Returns nil (SQL NULL) if the pointer is nil.
func nullableStatusToString(s *domain.ItemStatus) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}

// parseNullableStatus converts a nullable status column into a *ItemStatus,
// normalizing legacy aliases. Returns nil for NULL or unrecognized values.
func parseNullableStatus(s sql.NullString) *domain.ItemStatus {
	if !s.Valid || s.String == "" {
		return nil
	}
	status, ok := domain.NormalizeItemStatus(s.String)
	if !ok {
		return nil
	}
	return &status
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
