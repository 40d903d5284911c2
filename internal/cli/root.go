package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/journal"
	"github.com/daybook-app/daybook/internal/keyring"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/reactions"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/social"
	"github.com/daybook-app/daybook/internal/suggest"
	"github.com/daybook-app/daybook/internal/utils"
)

type Context struct {
	Store       record.Store
	Remote      *record.HTTPStore   // nil when running against the local store
	Local       *record.SQLiteStore // nil when running against the server
	Journal     *journal.Service
	Suggestions *suggest.Service
	Profiles    *social.ProfileService
	Follows     *social.FollowService
	Reactions   *reactions.Service

	ConfigDir   string
	DBPath      string // --db path, empty when running remote
	ProfileFlag string // --profile override, a profile name or id

	user *record.Record
}

// RequireUser resolves the acting user. Against the server this
// validates the keyring token; against the local store it finds or
// creates the single local user.
func (c *Context) RequireUser(ctx context.Context) (record.Record, error) {
	if c.user != nil {
		return *c.user, nil
	}

	if c.Remote != nil {
		token, err := keyring.GetToken()
		if err != nil {
			return record.Record{}, fmt.Errorf("not logged in, run 'daybook login' first")
		}
		c.Remote.SetToken(token)
		res, err := c.Remote.AuthRefresh(ctx)
		if err != nil {
			return record.Record{}, fmt.Errorf("session expired, run 'daybook login' again: %w", err)
		}
		if res.Token != token {
			// Best effort; an unwritable keyring just means an extra
			// refresh next run.
			_ = keyring.SetToken(res.Token)
		}
		c.user = &res.User
		return res.User, nil
	}

	list, err := c.Store.GetList(ctx, constants.CollectionUsers, 1, 1, record.Options{})
	if err != nil {
		return record.Record{}, err
	}
	if len(list.Items) > 0 {
		c.user = &list.Items[0]
		return list.Items[0], nil
	}
	rec, err := c.Store.Create(ctx, constants.CollectionUsers, map[string]any{
		"email":             "local@localhost",
		"password":          "unused",
		constants.FieldName: "local",
	})
	if err != nil {
		return record.Record{}, err
	}
	c.user = &rec
	return rec, nil
}

// RequireProfile loads the user's profiles and returns the acting one:
// the --profile override when given, otherwise the saved selection,
// otherwise the self profile.
func (c *Context) RequireProfile(ctx context.Context) (models.Profile, error) {
	user, err := c.RequireUser(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	if _, err := c.Profiles.EnsureSelfProfile(ctx, user); err != nil {
		return models.Profile{}, fmt.Errorf("failed to ensure profile: %w", err)
	}
	profiles, err := c.Profiles.Fetch(ctx, user.ID)
	if err != nil {
		return models.Profile{}, err
	}

	selector := c.ProfileFlag
	if selector == "" {
		state, _ := LoadState(c.ConfigDir)
		selector = state.ActiveProfile
	}
	if selector != "" {
		for _, p := range profiles {
			if p.ID == selector || strings.EqualFold(p.Name, selector) {
				if err := c.Profiles.SetActive(p.ID); err != nil {
					return models.Profile{}, err
				}
				return p, nil
			}
		}
		if c.ProfileFlag != "" {
			return models.Profile{}, fmt.Errorf("no profile named %q", selector)
		}
		// Saved selection no longer exists; fall through to the default.
	}

	active := c.Profiles.Active()
	if active == nil {
		return models.Profile{}, fmt.Errorf("no profiles found for this account")
	}
	return *active, nil
}

// ResolveDay parses a --date value, defaulting to today.
func ResolveDay(date string) (string, error) {
	if date == "" {
		return utils.Today(), nil
	}
	if _, err := utils.ParseDay(date); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", date, err)
	}
	return date, nil
}
