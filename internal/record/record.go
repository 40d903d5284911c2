// Package record implements the generic record-store surface the rest of
// the application is built on: typed-by-collection CRUD with filtered,
// sorted list queries. Three implementations are provided: the remote HTTP
// server (normal operation), a local SQLite file (offline mode), and an
// in-memory store (tests).
package record

import (
	"time"

	"github.com/daybook-app/daybook/internal/constants"
)

// Record is one stored document. Domain packages shape these into their
// own types; the store layer never interprets Fields beyond filtering
// and sorting.
type Record struct {
	ID      string
	Created time.Time
	Updated time.Time
	Fields  map[string]any
	// Expand holds joined relation records, keyed by the relation field
	// name, when a query requested them.
	Expand map[string]Record
}

// GetString returns a string field, or "" if absent or not a string.
func (r Record) GetString(field string) string {
	s, _ := r.Fields[field].(string)
	return s
}

// GetInt returns a numeric field as an int. JSON decoding produces
// float64, the local stores store int; both are handled.
func (r Record) GetInt(field string) int {
	switch v := r.Fields[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// GetBool returns a boolean field, or false if absent.
func (r Record) GetBool(field string) bool {
	b, _ := r.Fields[field].(bool)
	return b
}

// parseTimestamp parses the server's timestamp layout, falling back to
// RFC3339 and plain dates. Returns the zero time on failure.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		constants.RecordTimestampFormat,
		time.RFC3339,
		constants.DateFormat,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.RecordTimestampFormat)
}

func nowUTC() time.Time {
	// Truncate to the precision the timestamp layout can round-trip.
	return time.Now().UTC().Truncate(time.Millisecond)
}
