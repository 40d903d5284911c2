package models

import (
	"time"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/utils"
)

// Entry is the journaling record for one profile on one calendar day.
// There is at most one per (profile, date) pair; that uniqueness is
// enforced by query-before-create, not by the server.
type Entry struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	BonusNotes string    `json:"bonus_notes"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
}

func EntryFromRecord(r record.Record) Entry {
	return Entry{
		ID:         r.ID,
		ProfileID:  r.GetString(constants.FieldProfile),
		Date:       utils.DayOf(r.GetString(constants.FieldDate)),
		BonusNotes: r.GetString(constants.FieldBonusNotes),
		Created:    r.Created,
		Updated:    r.Updated,
	}
}
