package days

import (
	"context"
	"fmt"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/reactions"
	"github.com/daybook-app/daybook/internal/utils"
)

type DayCmd struct {
	Date string `short:"d" help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *DayCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}
	day, err := cli.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	date, _ := utils.ParseDay(day)

	entry, err := appCtx.Journal.LoadForDate(ctx, profile.ID, date)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderDayHeader(profile.Name, day))
	fmt.Println()

	things := appCtx.Journal.Things()
	if entry == nil || len(things) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No things recorded yet."))
	} else {
		ids := make([]string, len(things))
		for i, th := range things {
			ids[i] = th.ID
		}
		// Reactions are decoration; a failed fetch still shows the day.
		_ = appCtx.Reactions.FetchForThings(ctx, ids)

		ordered := make([]string, len(reactions.All))
		for i, e := range reactions.All {
			ordered[i] = e.Emoji
		}
		for _, th := range things {
			tail := cli.RenderReactionsTail(appCtx.Reactions.Counts(th.ID, ""), ordered)
			fmt.Println(cli.RenderThingLine(th.Order, th.Content, tail))
		}
	}

	if entry != nil && entry.BonusNotes != "" {
		fmt.Println()
		fmt.Println(cli.HighlightStyle.Render("Notes: ") + entry.BonusNotes)
	}

	if sugs, err := appCtx.Suggestions.FetchForDate(ctx, profile.ID, day); err == nil && len(sugs) > 0 {
		fmt.Println()
		fmt.Printf("%s\n", cli.HighlightStyle.Render(fmt.Sprintf("💡 %d pending suggestion(s) for this day:", len(sugs))))
		for _, s := range sugs {
			fmt.Printf("  [%s] %s%s\n", s.ID, s.Content, fromLabel(s))
		}
		fmt.Println(cli.SubtleStyle.Render("  Use 'daybook suggest accept <id>' to add one."))
	}

	return nil
}

func fromLabel(s models.Suggestion) string {
	if s.FromProfile != nil && s.FromProfile.Name != "" {
		return fmt.Sprintf(" (from %s)", s.FromProfile.Name)
	}
	return ""
}
