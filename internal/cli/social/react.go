package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/reactions"
	"github.com/daybook-app/daybook/internal/utils"
)

type ReactCmd struct {
	Name  string `arg:"" help:"Followed profile whose thing to react to."`
	Slot  int    `arg:"" help:"Thing position (1-based) on their day."`
	Emoji string `arg:"" help:"Reaction code (heart|laugh|wow|sad|pray|celebrate)."`
	Date  string `short:"d" help:"Their day to react to (YYYY-MM-DD). Defaults to today."`
}

func (c *ReactCmd) Validate() error {
	if c.Slot < 1 {
		return fmt.Errorf("slot must be at least 1")
	}
	if reactions.EmojiByCode(strings.ToLower(c.Emoji)) == "" {
		var codes []string
		for _, e := range reactions.All {
			codes = append(codes, e.Code)
		}
		return fmt.Errorf("unknown reaction %q (one of: %s)", c.Emoji, strings.Join(codes, ", "))
	}
	return nil
}

func (c *ReactCmd) Run(appCtx *cli.Context) error {
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
	var targetID, targetName string
	for _, f := range appCtx.Follows.Accepted() {
		if f.Profile != nil && strings.EqualFold(f.Profile.Name, c.Name) {
			targetID, targetName = f.Profile.ID, f.Profile.Name
			break
		}
	}
	if targetID == "" {
		return fmt.Errorf("you don't follow a profile named %q", c.Name)
	}

	t, _ := utils.ParseDay(day)
	if _, err := appCtx.Journal.LoadForDate(ctx, targetID, t); err != nil {
		return err
	}
	things := appCtx.Journal.Things()
	if c.Slot > len(things) {
		return fmt.Errorf("%s has only %d thing(s) on %s", targetName, len(things), day)
	}
	thing := things[c.Slot-1]

	emoji := reactions.EmojiByCode(strings.ToLower(c.Emoji))
	if err := appCtx.Reactions.Toggle(ctx, thing.ID, profile.ID, emoji); err != nil {
		return err
	}

	if appCtx.Reactions.MyReaction(thing.ID, profile.ID) == nil {
		fmt.Printf("Removed your reaction from %q.\n", thing.Content)
	} else {
		fmt.Printf("Reacted %s to %q.\n", emoji, thing.Content)
	}
	return nil
}
