package things

import (
	"context"
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/utils"
)

// loadDay resolves the acting profile and loads the entry context for
// the given --date value, returning the day string.
func loadDay(ctx context.Context, appCtx *cli.Context, date string) (string, error) {
	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return "", err
	}
	day, err := cli.ResolveDay(date)
	if err != nil {
		return "", err
	}
	t, _ := utils.ParseDay(day)
	if _, err := appCtx.Journal.LoadForDate(ctx, profile.ID, t); err != nil {
		return "", err
	}
	return day, nil
}

type ThingSetCmd struct {
	Slot    int      `arg:"" help:"Position to write (1-based)."`
	Content []string `arg:"" optional:"" help:"Thing text. Empty clears the slot."`
	Date    string   `short:"d" help:"Day to edit (YYYY-MM-DD). Defaults to today."`
}

func (c *ThingSetCmd) Validate() error {
	if c.Slot < 1 {
		return fmt.Errorf("slot must be at least 1")
	}
	return nil
}

func (c *ThingSetCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	day, err := loadDay(ctx, appCtx, c.Date)
	if err != nil {
		return err
	}

	content := strings.Join(c.Content, " ")
	if err := appCtx.Journal.SaveThing(ctx, c.Slot-1, content); err != nil {
		return err
	}

	if strings.TrimSpace(content) == "" {
		fmt.Printf("Cleared thing %d for %s.\n", c.Slot, day)
	} else {
		fmt.Printf("Saved thing %d for %s.\n", c.Slot, day)
	}
	return nil
}

type ThingClearCmd struct {
	Slot int    `arg:"" help:"Position to remove (1-based)."`
	Date string `short:"d" help:"Day to edit (YYYY-MM-DD). Defaults to today."`
}

func (c *ThingClearCmd) Validate() error {
	if c.Slot < 1 {
		return fmt.Errorf("slot must be at least 1")
	}
	return nil
}

func (c *ThingClearCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	day, err := loadDay(ctx, appCtx, c.Date)
	if err != nil {
		return err
	}

	if err := appCtx.Journal.RemoveThing(ctx, c.Slot-1); err != nil {
		return err
	}
	fmt.Printf("Removed thing %d for %s.\n", c.Slot, day)
	return nil
}

type ThingListCmd struct {
	Date string `short:"d" help:"Day to list (YYYY-MM-DD). Defaults to today."`
}

func (c *ThingListCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	day, err := loadDay(ctx, appCtx, c.Date)
	if err != nil {
		return err
	}

	things := appCtx.Journal.Things()
	if len(things) == 0 {
		fmt.Printf("No things recorded for %s.\n", day)
		return nil
	}
	for _, th := range things {
		fmt.Println(cli.RenderThingLine(th.Order, th.Content, ""))
	}
	return nil
}
