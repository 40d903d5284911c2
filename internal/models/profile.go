package models

import (
	"time"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/record"
)

// Profile is a journaling identity. A user always has one self profile
// and may administer managed profiles on behalf of others.
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	IsManaged      bool      `json:"is_managed"`
	ShareCode      string    `json:"share_code"`
	ManagementCode string    `json:"management_code,omitempty"`
	CreatedBy      string    `json:"created_by"`
	Created        time.Time `json:"created"`
}

func ProfileFromRecord(r record.Record) Profile {
	return Profile{
		ID:             r.ID,
		Name:           r.GetString(constants.FieldName),
		IsManaged:      r.GetBool(constants.FieldIsManaged),
		ShareCode:      r.GetString(constants.FieldShareCode),
		ManagementCode: r.GetString(constants.FieldMgmtCode),
		CreatedBy:      r.GetString(constants.FieldCreatedBy),
		Created:        r.Created,
	}
}

// Follow is an outgoing edge: the owning profile follows Profile.
type Follow struct {
	ID      string                 `json:"id"`
	Status  constants.FollowStatus `json:"status"`
	Profile *Profile               `json:"profile,omitempty"`
	Created time.Time              `json:"created"`
}

// FollowRequest is an incoming pending edge to a profile the user
// manages.
type FollowRequest struct {
	ID                 string    `json:"id"`
	FollowerProfile    *Profile  `json:"follower_profile,omitempty"`
	FollowingProfileID string    `json:"following_profile_id"`
	Created            time.Time `json:"created"`
}
