package models

import (
	"time"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/record"
)

// Thing is one ordered list item within an Entry. Order values for an
// entry's things are always the contiguous range 1..N; position in the
// list is the sole basis for ordering.
type Thing struct {
	ID      string    `json:"id"`
	EntryID string    `json:"entry_id"`
	Content string    `json:"content"`
	Order   int       `json:"order"`
	Created time.Time `json:"created"`
}

func ThingFromRecord(r record.Record) Thing {
	return Thing{
		ID:      r.ID,
		EntryID: r.GetString(constants.FieldEntry),
		Content: r.GetString(constants.FieldContent),
		Order:   r.GetInt(constants.FieldOrder),
		Created: r.Created,
	}
}
