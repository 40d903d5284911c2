package record

import (
	"sort"
	"strings"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
)

// requiredFields mirrors the server-side collection schemas. The local
// stores enforce them on create so a misbehaving caller fails the same
// way offline as it would against the server.
var requiredFields = map[string][]string{
	constants.CollectionEntries:     {constants.FieldProfile, constants.FieldDate},
	constants.CollectionThings:      {constants.FieldEntry, constants.FieldContent, constants.FieldOrder},
	constants.CollectionSuggestions: {constants.FieldFrom, constants.FieldTo, constants.FieldDate, constants.FieldContent, constants.FieldStatus},
	constants.CollectionProfiles:    {constants.FieldName},
	constants.CollectionProfileManagers: {
		constants.FieldProfile, constants.FieldUser,
	},
	constants.CollectionFollowers: {
		constants.FieldFollower, constants.FieldFollowing, constants.FieldStatus,
	},
	constants.CollectionReactions: {
		constants.FieldThing, constants.FieldProfile, constants.FieldEmoji,
	},
	constants.CollectionUsers: {"email", "password"},
}

// relationTargets maps relation fields to the collection they point at,
// for resolving expand joins in the local stores.
var relationTargets = map[string]map[string]string{
	constants.CollectionEntries: {
		constants.FieldProfile: constants.CollectionProfiles,
	},
	constants.CollectionThings: {
		constants.FieldEntry: constants.CollectionEntries,
	},
	constants.CollectionSuggestions: {
		constants.FieldFrom: constants.CollectionProfiles,
		constants.FieldTo:   constants.CollectionProfiles,
	},
	constants.CollectionProfileManagers: {
		constants.FieldProfile: constants.CollectionProfiles,
		constants.FieldUser:    constants.CollectionUsers,
	},
	constants.CollectionFollowers: {
		constants.FieldFollower:  constants.CollectionProfiles,
		constants.FieldFollowing: constants.CollectionProfiles,
	},
	constants.CollectionReactions: {
		constants.FieldThing:   constants.CollectionThings,
		constants.FieldProfile: constants.CollectionProfiles,
	},
}

// validateFields checks create input against the collection schema.
func validateFields(collection string, fields map[string]any) error {
	for _, field := range requiredFields[collection] {
		v, ok := fields[field]
		if !ok || v == nil {
			return &errors.ValidationError{Field: field, Reason: "missing required field"}
		}
		switch x := v.(type) {
		case string:
			if strings.TrimSpace(x) == "" {
				return &errors.ValidationError{Field: field, Reason: "cannot be blank"}
			}
		case int:
			if field == constants.FieldOrder && x < 1 {
				return &errors.ValidationError{Field: field, Reason: "must be a positive integer"}
			}
		case float64:
			if field == constants.FieldOrder && x < 1 {
				return &errors.ValidationError{Field: field, Reason: "must be a positive integer"}
			}
		}
	}
	return nil
}

// lookupFunc fetches a record by collection and id, reporting whether it
// exists. Local stores supply it so expand resolution can be shared.
type lookupFunc func(collection, id string) (Record, bool)

// resolveExpand joins relation targets into rec.Expand for each field
// named in the comma-separated expand list. Missing targets are skipped;
// expand is best effort, never an error.
func resolveExpand(rec *Record, collection, expand string, lookup lookupFunc) {
	if expand == "" {
		return
	}
	targets := relationTargets[collection]
	for _, field := range strings.Split(expand, ",") {
		field = strings.TrimSpace(field)
		target, ok := targets[field]
		if !ok {
			continue
		}
		id := rec.GetString(field)
		if id == "" {
			continue
		}
		joined, ok := lookup(target, id)
		if !ok {
			continue
		}
		if rec.Expand == nil {
			rec.Expand = make(map[string]Record)
		}
		rec.Expand[field] = joined
	}
}

// sortRecords orders records by the given sort key in place. A leading
// "-" sorts descending. "created" and "updated" sort on the record
// timestamps; any other key sorts on the named field, numerically when
// the values are numbers and lexicographically otherwise.
func sortRecords(items []Record, key string) {
	if key == "" {
		return
	}
	desc := strings.HasPrefix(key, "-")
	field := strings.TrimPrefix(key, "-")
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return recordLess(items[j], items[i], field)
		}
		return recordLess(items[i], items[j], field)
	})
}

func recordLess(a, b Record, field string) bool {
	switch field {
	case "created":
		return a.Created.Before(b.Created)
	case "updated":
		return a.Updated.Before(b.Updated)
	}
	if af, aok := toFloat(a.Fields[field]); aok {
		if bf, bok := toFloat(b.Fields[field]); bok {
			return af < bf
		}
	}
	return a.GetString(field) < b.GetString(field)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
