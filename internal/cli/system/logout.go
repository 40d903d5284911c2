package system

import (
	"fmt"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/keyring"
)

type LogoutCmd struct{}

func (c *LogoutCmd) Run(appCtx *cli.Context) error {
	if appCtx.Remote == nil {
		return fmt.Errorf("nothing to log out of in local mode")
	}

	err := keyring.DeleteToken()
	if err != nil && err != keyring.ErrNotFound {
		return err
	}

	appCtx.Journal.Clear()
	appCtx.Suggestions.Clear()
	appCtx.Follows.Clear()
	appCtx.Reactions.Clear()

	if err == keyring.ErrNotFound {
		fmt.Println("You weren't logged in.")
	} else {
		fmt.Println("Logged out.")
	}
	return nil
}
