package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/cli/days"
	"github.com/daybook-app/daybook/internal/cli/social"
	"github.com/daybook-app/daybook/internal/cli/suggestions"
	"github.com/daybook-app/daybook/internal/cli/system"
	"github.com/daybook-app/daybook/internal/cli/things"
	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/journal"
	"github.com/daybook-app/daybook/internal/logger"
	"github.com/daybook-app/daybook/internal/reactions"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/suggest"
	socialsvc "github.com/daybook-app/daybook/internal/social"
)

var CLI struct {
	Version kong.VersionFlag
	Server  string `help:"Record server URL." default:"${server}" env:"DAYBOOK_SERVER"`
	DB      string `help:"Use a local SQLite store at this path instead of the server." type:"path" env:"DAYBOOK_DB"`
	Profile string `help:"Act as this profile (name or id) for this run." env:"DAYBOOK_PROFILE"`
	Debug   bool   `help:"Enable debug logging."`

	Login  system.LoginCmd  `cmd:"" help:"Log in to the record server."`
	Logout system.LogoutCmd `cmd:"" help:"Log out and forget the saved session."`
	Whoami system.WhoamiCmd `cmd:"" help:"Show the current account and profile."`
	Init   system.InitCmd   `cmd:"" help:"Initialize the local store (with --db)."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and repair duplicate entries."`

	Backup struct {
		Create  system.BackupCreateCmd  `cmd:"" help:"Snapshot the local database." default:"1"`
		List    system.BackupListCmd    `cmd:"" help:"List local database snapshots."`
		Restore system.BackupRestoreCmd `cmd:"" help:"Restore the local database from a snapshot."`
	} `cmd:"" help:"Back up the local store (with --db)."`

	Day   days.DayCmd   `cmd:"" help:"Show a day's things, notes, and suggestions." default:"1"`
	Note  days.NoteCmd  `cmd:"" help:"Set or clear a day's bonus notes."`
	Month days.MonthCmd `cmd:"" help:"Show which days of a month have entries."`

	Thing struct {
		Set   things.ThingSetCmd   `cmd:"" help:"Write a thing at a position."`
		Clear things.ThingClearCmd `cmd:"" help:"Remove a thing and close the gap."`
		List  things.ThingListCmd  `cmd:"" help:"List a day's things."`
	} `cmd:"" help:"Manage the things on a day."`

	Suggest struct {
		Send    suggestions.SuggestSendCmd    `cmd:"" help:"Suggest a thing to a profile you follow."`
		List    suggestions.SuggestListCmd    `cmd:"" help:"List pending suggestions for your profiles."`
		Accept  suggestions.SuggestAcceptCmd  `cmd:"" help:"Accept a suggestion onto its day."`
		Decline suggestions.SuggestDeclineCmd `cmd:"" help:"Decline a suggestion."`
	} `cmd:"" help:"Send and review suggestions."`

	Follow struct {
		Code     social.FollowCodeCmd     `cmd:"" help:"Follow a profile by share code."`
		Requests social.FollowRequestsCmd `cmd:"" help:"List incoming follow requests."`
		Accept   social.FollowAcceptCmd   `cmd:"" help:"Accept a follow request."`
		Decline  social.FollowDeclineCmd  `cmd:"" help:"Decline a follow request."`
		Remove   social.FollowRemoveCmd   `cmd:"" help:"Stop following a profile."`
		List     social.FollowListCmd     `cmd:"" help:"List profiles you follow."`
	} `cmd:"" help:"Manage follows."`

	ProfileCmd struct {
		List   social.ProfileListCmd   `cmd:"" help:"List your profiles and share codes."`
		Create social.ProfileCreateCmd `cmd:"" help:"Create a managed profile."`
		Use    social.ProfileUseCmd    `cmd:"" help:"Switch the default profile."`
	} `cmd:"" name:"profiles" help:"Manage your profiles."`

	React social.ReactCmd `cmd:"" help:"React to a thing on a followed profile's day."`
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return strings.TrimPrefix(constants.DefaultConfigDir, "~/")
	}
	return filepath.Join(home, strings.TrimPrefix(constants.DefaultConfigDir, "~/"))
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Shared journal for the small things of each day"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"server":  constants.DefaultServerURL,
		},
	)

	dir := configDir()
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	var store record.Store
	var remote *record.HTTPStore
	var local *record.SQLiteStore
	if CLI.DB != "" {
		local = record.NewSQLiteStore(CLI.DB)
		store = local
		if ctx.Selected() != nil && ctx.Selected().Name != "init" {
			if err := local.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	} else {
		remote = record.NewHTTPStore(CLI.Server)
		store = remote
	}

	journalSvc := journal.New(store)
	appCtx := &cli.Context{
		Store:       store,
		Remote:      remote,
		Local:       local,
		Journal:     journalSvc,
		Suggestions: suggest.New(store, journalSvc),
		Profiles:    socialsvc.NewProfileService(store),
		Follows:     socialsvc.NewFollowService(store),
		Reactions:   reactions.New(store),
		ConfigDir:   dir,
		DBPath:      CLI.DB,
		ProfileFlag: CLI.Profile,
	}

	errors.Fatal(ctx.Run(appCtx))
}
