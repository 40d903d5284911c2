package days

import (
	"context"
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/utils"
)

type NoteCmd struct {
	Note []string `arg:"" optional:"" help:"Note text. Empty clears the note."`
	Date string   `short:"d" help:"Day to annotate (YYYY-MM-DD). Defaults to today."`
}

func (c *NoteCmd) Run(appCtx *cli.Context) error {
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

	if _, err := appCtx.Journal.LoadForDate(ctx, profile.ID, date); err != nil {
		return err
	}

	note := strings.Join(c.Note, " ")
	if err := appCtx.Journal.SaveBonusNotes(ctx, note); err != nil {
		return err
	}

	if strings.TrimSpace(note) == "" {
		fmt.Printf("Cleared notes for %s.\n", day)
	} else {
		fmt.Printf("Saved notes for %s.\n", day)
	}
	return nil
}
