package system

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/keyring"
	"github.com/daybook-app/daybook/internal/logger"
)

type LoginCmd struct {
	Email    string `short:"e" help:"Account email. Prompted when omitted."`
	Password string `short:"p" help:"Account password. Prompted when omitted (preferred: prompts keep it out of shell history)."`
}

func (c *LoginCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	if appCtx.Remote == nil {
		return fmt.Errorf("login is only needed against the server; the local store has no accounts")
	}

	email, password := c.Email, c.Password
	if email == "" || password == "" {
		var fields []huh.Field
		if email == "" {
			fields = append(fields, huh.NewInput().Title("Email").Value(&email))
		}
		if password == "" {
			fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password))
		}
		form := huh.NewForm(huh.NewGroup(fields...))
		if err := form.Run(); err != nil {
			return fmt.Errorf("login form error: %w", err)
		}
	}

	res, err := appCtx.Remote.AuthWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	if err := keyring.SetToken(res.Token); err != nil {
		return fmt.Errorf("authenticated, but failed to save token: %w", err)
	}

	profile, err := appCtx.Profiles.EnsureSelfProfile(ctx, res.User)
	if err != nil {
		return fmt.Errorf("logged in, but failed to set up your profile: %w", err)
	}

	logger.Info("logged in", "user", res.User.ID)
	fmt.Printf("%s Logged in as %s.\n", cli.SuccessStyle.Render("✓"), profile.Name)
	fmt.Printf("Your share code is %s — friends follow you with 'daybook follow code'.\n",
		cli.HighlightStyle.Render(profile.ShareCode))
	return nil
}
