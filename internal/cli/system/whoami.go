package system

import (
	"context"
	"fmt"

	"github.com/daybook-app/daybook/internal/cli"
)

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}
	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}

	if email := user.GetString("email"); email != "" {
		fmt.Printf("Account:    %s\n", email)
	}
	fmt.Printf("Profile:    %s\n", profile.Name)
	fmt.Printf("Share code: %s\n", profile.ShareCode)

	if managed := appCtx.Profiles.Managed(); len(managed) > 0 {
		fmt.Printf("Managing:   ")
		for i, p := range managed {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Print(p.Name)
		}
		fmt.Println()
	}

	if pending, err := appCtx.Suggestions.FetchPending(ctx, appCtx.Profiles.IDs()); err == nil && len(pending) > 0 {
		fmt.Printf("\n💡 %d pending suggestion(s) — see 'daybook suggest list'.\n", len(pending))
	}
	if requests, err := appCtx.Follows.FetchRequests(ctx, appCtx.Profiles.IDs()); err == nil && len(requests) > 0 {
		fmt.Printf("👋 %d pending follow request(s) — see 'daybook follow requests'.\n", len(requests))
	}

	return nil
}
