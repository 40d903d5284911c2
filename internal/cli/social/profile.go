package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/cli"
)

type ProfileListCmd struct{}

func (c *ProfileListCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	active, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}

	for _, p := range appCtx.Profiles.Profiles() {
		marker := "  "
		if p.ID == active.ID {
			marker = cli.SuccessStyle.Render("* ")
		}
		kind := ""
		if p.IsManaged {
			kind = cli.SubtleStyle.Render(" (managed)")
		}
		fmt.Printf("%s%s%s\n", marker, p.Name, kind)
		fmt.Printf("    share code: %s\n", cli.HighlightStyle.Render(p.ShareCode))
	}
	return nil
}

type ProfileCreateCmd struct {
	Name []string `arg:"" help:"Name for the managed profile."`
}

func (c *ProfileCreateCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}

	profile, err := appCtx.Profiles.CreateManaged(ctx, user.ID, strings.Join(c.Name, " "))
	if err != nil {
		return err
	}

	fmt.Printf("Created managed profile %s.\n", profile.Name)
	fmt.Printf("  share code:      %s\n", profile.ShareCode)
	fmt.Printf("  management code: %s\n", profile.ManagementCode)
	return nil
}

type ProfileUseCmd struct {
	Name string `arg:"" help:"Profile name or id to switch to."`
}

func (c *ProfileUseCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	user, err := appCtx.RequireUser(ctx)
	if err != nil {
		return err
	}
	if _, err := appCtx.Profiles.EnsureSelfProfile(ctx, user); err != nil {
		return err
	}
	profiles, err := appCtx.Profiles.Fetch(ctx, user.ID)
	if err != nil {
		return err
	}

	for _, p := range profiles {
		if p.ID == c.Name || strings.EqualFold(p.Name, c.Name) {
			if err := appCtx.Profiles.SetActive(p.ID); err != nil {
				return err
			}
			state, _ := cli.LoadState(appCtx.ConfigDir)
			state.ActiveProfile = p.ID
			if err := cli.SaveState(appCtx.ConfigDir, state); err != nil {
				return fmt.Errorf("failed to save profile selection: %w", err)
			}
			fmt.Printf("Now writing as %s.\n", p.Name)
			return nil
		}
	}
	return fmt.Errorf("no profile named %q", c.Name)
}
