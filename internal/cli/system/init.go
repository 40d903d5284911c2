package system

import (
	"fmt"

	"github.com/daybook-app/daybook/internal/cli"
)

type InitCmd struct{}

func (c *InitCmd) Run(appCtx *cli.Context) error {
	if appCtx.Local == nil {
		return fmt.Errorf("init only applies to the local store; pass --db to select one")
	}
	if err := appCtx.Local.Init(); err != nil {
		return err
	}
	fmt.Println("Local store initialized.")
	return nil
}
