package models

import (
	"time"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/utils"
)

// Suggestion is a proposed Thing sent from one profile to another for a
// specific day. It is created pending and transitions exactly once, to
// accepted or declined; terminal suggestions are kept as an audit trail
// but excluded from every active view.
type Suggestion struct {
	ID            string                     `json:"id"`
	FromProfileID string                     `json:"from_profile_id"`
	FromProfile   *Profile                   `json:"from_profile,omitempty"`
	ToProfileID   string                     `json:"to_profile_id"`
	Date          string                     `json:"date"` // YYYY-MM-DD
	Content       string                     `json:"content"`
	Status        constants.SuggestionStatus `json:"status"`
	Created       time.Time                  `json:"created"`
}

func SuggestionFromRecord(r record.Record) Suggestion {
	s := Suggestion{
		ID:            r.ID,
		FromProfileID: r.GetString(constants.FieldFrom),
		ToProfileID:   r.GetString(constants.FieldTo),
		Date:          utils.DayOf(r.GetString(constants.FieldDate)),
		Content:       r.GetString(constants.FieldContent),
		Status:        constants.SuggestionStatus(r.GetString(constants.FieldStatus)),
		Created:       r.Created,
	}
	if from, ok := r.Expand[constants.FieldFrom]; ok {
		p := ProfileFromRecord(from)
		s.FromProfile = &p
	}
	return s
}
