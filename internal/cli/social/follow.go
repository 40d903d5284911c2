package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/models"
)

type FollowCodeCmd struct {
	Code string `arg:"" help:"Share code of the profile to follow (xxx-xxx-xxx)."`
}

func (c *FollowCodeCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}

	follow, err := appCtx.Follows.FollowByCode(ctx, profile.ID, c.Code)
	if err != nil {
		return err
	}

	name := "the profile"
	if follow.Profile != nil {
		name = follow.Profile.Name
	}
	fmt.Printf("Follow request sent to %s. You'll see their days once they accept.\n", name)
	return nil
}

type FollowRequestsCmd struct{}

func (c *FollowRequestsCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	if _, err := appCtx.RequireProfile(ctx); err != nil {
		return err
	}
	requests, err := appCtx.Follows.FetchRequests(ctx, appCtx.Profiles.IDs())
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		fmt.Println("No pending follow requests.")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%d pending follow request(s)", len(requests))))
	for _, r := range requests {
		name := "unknown"
		if r.FollowerProfile != nil {
			name = r.FollowerProfile.Name
		}
		fmt.Printf("  [%s] %s wants to follow you\n", r.ID, name)
	}
	fmt.Println(cli.SubtleStyle.Render("Use 'daybook follow accept <id>' or 'daybook follow decline <id>'."))
	return nil
}

// loadRequest refreshes the request cache and returns the request with
// the given id.
func loadRequest(ctx context.Context, appCtx *cli.Context, id string) (models.FollowRequest, error) {
	if _, err := appCtx.RequireProfile(ctx); err != nil {
		return models.FollowRequest{}, err
	}
	requests, err := appCtx.Follows.FetchRequests(ctx, appCtx.Profiles.IDs())
	if err != nil {
		return models.FollowRequest{}, err
	}
	for _, r := range requests {
		if r.ID == id {
			return r, nil
		}
	}
	return models.FollowRequest{}, fmt.Errorf("no pending follow request with id %s", id)
}

type FollowAcceptCmd struct {
	ID string `arg:"" help:"Request id to accept."`
}

func (c *FollowAcceptCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	req, err := loadRequest(ctx, appCtx, c.ID)
	if err != nil {
		return err
	}
	if err := appCtx.Follows.AcceptRequest(ctx, req.ID); err != nil {
		return err
	}
	name := "the follower"
	if req.FollowerProfile != nil {
		name = req.FollowerProfile.Name
	}
	fmt.Printf("%s %s can now see your days.\n", cli.SuccessStyle.Render("✓"), name)
	return nil
}

type FollowDeclineCmd struct {
	ID    string `arg:"" help:"Request id to decline."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *FollowDeclineCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	req, err := loadRequest(ctx, appCtx, c.ID)
	if err != nil {
		return err
	}

	name := "this follower"
	if req.FollowerProfile != nil {
		name = req.FollowerProfile.Name
	}

	if !c.Force {
		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Decline follow request from %s?", name)).
					Description("They can send a new request later.").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("confirmation form error: %w", err)
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := appCtx.Follows.DeclineRequest(ctx, req.ID); err != nil {
		return err
	}
	fmt.Printf("Declined follow request from %s.\n", name)
	return nil
}

type FollowRemoveCmd struct {
	Name string `arg:"" help:"Name of the profile to unfollow."`
}

func (c *FollowRemoveCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}
	if _, err := appCtx.Follows.FetchFollowing(ctx, profile.ID); err != nil {
		return err
	}

	for _, f := range append(appCtx.Follows.Accepted(), appCtx.Follows.PendingFollowing()...) {
		if f.Profile != nil && strings.EqualFold(f.Profile.Name, c.Name) {
			if err := appCtx.Follows.Unfollow(ctx, f.ID); err != nil {
				return err
			}
			fmt.Printf("Unfollowed %s.\n", f.Profile.Name)
			return nil
		}
	}
	return fmt.Errorf("you don't follow a profile named %q", c.Name)
}

type FollowListCmd struct{}

func (c *FollowListCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}
	follows, err := appCtx.Follows.FetchFollowing(ctx, profile.ID)
	if err != nil {
		return err
	}
	if len(follows) == 0 {
		fmt.Println("You aren't following anyone yet. Ask for a share code and run 'daybook follow code <code>'.")
		return nil
	}

	for _, f := range follows {
		name := "unknown"
		if f.Profile != nil {
			name = f.Profile.Name
		}
		status := ""
		if f.Status != constants.FollowAccepted {
			status = cli.SubtleStyle.Render(" (pending)")
		}
		fmt.Printf("  %s%s\n", name, status)
	}
	return nil
}
