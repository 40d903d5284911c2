package constants

// SuggestionStatus represents the lifecycle state of a suggestion
type SuggestionStatus string

// FollowStatus represents the state of a follow relationship
type FollowStatus string

const (
	AppName           = "daybook"
	Version           = "v0.3.0"
	DefaultKeyringKey = "auth-token"
	DefaultServerURL  = "https://daybook.fly.dev"
	DefaultConfigDir  = "~/.config/daybook"

	// Suggestion statuses. Accepted and declined are terminal; a
	// suggestion is never reopened or deleted once it leaves pending.
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionDeclined SuggestionStatus = "declined"

	// Follow statuses
	FollowPending  FollowStatus = "pending"
	FollowAccepted FollowStatus = "accepted"
)

// Collection names on the record server
const (
	CollectionUsers           = "users"
	CollectionProfiles        = "profiles"
	CollectionProfileManagers = "profile_managers"
	CollectionFollowers       = "profile_followers"
	CollectionEntries         = "entries"
	CollectionThings          = "things"
	CollectionSuggestions     = "suggestions"
	CollectionReactions       = "things_reactions"
)

// Field names shared across collections
const (
	FieldProfile    = "profile"
	FieldDate       = "date"
	FieldBonusNotes = "bonus_notes"
	FieldEntry      = "entry"
	FieldContent    = "content"
	FieldOrder      = "order"
	FieldStatus     = "status"
	FieldFrom       = "from_profile"
	FieldTo         = "to_profile"
	FieldFollower   = "follower"
	FieldFollowing  = "following"
	FieldThing      = "thing"
	FieldEmoji      = "emoji"
	FieldName       = "name"
	FieldIsManaged  = "is_managed"
	FieldShareCode  = "share_code"
	FieldMgmtCode   = "management_code"
	FieldCreatedBy  = "created_by"
	FieldUser       = "user"
)
