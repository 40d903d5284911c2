package models

import (
	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/record"
)

// Reaction is one profile's emoji response to a Thing. A profile holds
// at most one reaction per thing; picking a different emoji replaces it.
type Reaction struct {
	ID          string `json:"id"`
	ThingID     string `json:"thing_id"`
	ProfileID   string `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Emoji       string `json:"emoji"`
}

func ReactionFromRecord(r record.Record) Reaction {
	reaction := Reaction{
		ID:          r.ID,
		ThingID:     r.GetString(constants.FieldThing),
		ProfileID:   r.GetString(constants.FieldProfile),
		ProfileName: "Unknown",
		Emoji:       r.GetString(constants.FieldEmoji),
	}
	if profile, ok := r.Expand[constants.FieldProfile]; ok {
		if name := profile.GetString(constants.FieldName); name != "" {
			reaction.ProfileName = name
		}
	}
	return reaction
}
