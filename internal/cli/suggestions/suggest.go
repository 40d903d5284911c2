package suggestions

import (
	"context"
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/utils"
)

type SuggestSendCmd struct {
	To      string   `arg:"" help:"Profile to suggest to (a name you follow)."`
	Content []string `arg:"" help:"Suggested thing text."`
	Date    string   `short:"d" help:"Day to suggest for (YYYY-MM-DD). Defaults to today."`
}

func (c *SuggestSendCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}
	day, err := cli.ResolveDay(c.Date)
	if err != nil {
		return err
	}

	if _, err := appCtx.Follows.FetchFollowing(ctx, profile.ID); err != nil {
		return err
	}
	var target *models.Profile
	for _, f := range appCtx.Follows.Accepted() {
		if f.Profile != nil && strings.EqualFold(f.Profile.Name, c.To) {
			target = f.Profile
			break
		}
	}
	if target == nil {
		return fmt.Errorf("you don't follow a profile named %q", c.To)
	}

	content := strings.Join(c.Content, " ")
	sug, err := appCtx.Suggestions.Create(ctx, profile.ID, target.ID, day, content)
	if err != nil {
		return err
	}

	fmt.Printf("Suggested %q to %s for %s (ID: %s)\n", sug.Content, target.Name, day, sug.ID)
	return nil
}

type SuggestListCmd struct{}

func (c *SuggestListCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	if _, err := appCtx.RequireProfile(ctx); err != nil {
		return err
	}

	pending, err := appCtx.Suggestions.FetchPending(ctx, appCtx.Profiles.IDs())
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending suggestions.")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%d pending suggestion(s)", len(pending))))
	for _, s := range pending {
		from := "someone"
		if s.FromProfile != nil && s.FromProfile.Name != "" {
			from = s.FromProfile.Name
		}
		fmt.Printf("  [%s] %s · %s suggests: %s\n", s.ID, utils.DayOf(s.Date), from, s.Content)
	}
	fmt.Println(cli.SubtleStyle.Render("Use 'daybook suggest accept <id>' or 'daybook suggest decline <id>'."))
	return nil
}

// loadPending refreshes the pending cache and returns the suggestion
// with the given id.
func loadPending(ctx context.Context, appCtx *cli.Context, id string) (models.Suggestion, error) {
	if _, err := appCtx.RequireProfile(ctx); err != nil {
		return models.Suggestion{}, err
	}
	pending, err := appCtx.Suggestions.FetchPending(ctx, appCtx.Profiles.IDs())
	if err != nil {
		return models.Suggestion{}, err
	}
	for _, s := range pending {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Suggestion{}, fmt.Errorf("no pending suggestion with id %s", id)
}

type SuggestAcceptCmd struct {
	ID string `arg:"" help:"Suggestion id to accept."`
}

func (c *SuggestAcceptCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	sug, err := loadPending(ctx, appCtx, c.ID)
	if err != nil {
		return err
	}

	entry, err := appCtx.Suggestions.Accept(ctx, sug.ID, sug.ToProfileID, utils.DayOf(sug.Date))
	if err != nil {
		return err
	}

	fmt.Printf("%s Added %q to %s.\n", cli.SuccessStyle.Render("✓"), sug.Content, entry.Date)
	return nil
}

type SuggestDeclineCmd struct {
	ID string `arg:"" help:"Suggestion id to decline."`
}

func (c *SuggestDeclineCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	sug, err := loadPending(ctx, appCtx, c.ID)
	if err != nil {
		return err
	}
	if err := appCtx.Suggestions.Decline(ctx, sug.ID); err != nil {
		return err
	}
	fmt.Printf("Declined suggestion %q.\n", sug.Content)
	return nil
}
