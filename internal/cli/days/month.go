package days

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook-app/daybook/internal/cli"
)

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *MonthCmd) Validate() error {
	if c.Month == "" {
		return nil
	}
	if _, err := time.Parse("2006-01", c.Month); err != nil {
		return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
	}
	return nil
}

func (c *MonthCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()

	profile, err := appCtx.RequireProfile(ctx)
	if err != nil {
		return err
	}

	var year int
	var month time.Month
	if c.Month == "" {
		now := time.Now()
		year, month = now.Year(), now.Month()
	} else {
		t, _ := time.Parse("2006-01", c.Month)
		year, month = t.Year(), t.Month()
	}

	entries, err := appCtx.Journal.EntriesForMonth(ctx, profile.ID, year, month)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s %d", month, year)) +
		cli.SubtleStyle.Render(" · "+profile.Name))
	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No entries this month."))
		return nil
	}

	for _, e := range entries {
		marker := " "
		if e.BonusNotes != "" {
			marker = cli.HighlightStyle.Render("✎")
		}
		fmt.Printf("  %s %s\n", e.Date, marker)
	}
	fmt.Printf("\n%d day(s) with entries.\n", len(entries))
	return nil
}
