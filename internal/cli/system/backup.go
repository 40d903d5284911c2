package system

import (
	"fmt"
	"path/filepath"

	"github.com/daybook-app/daybook/internal/backup"
	"github.com/daybook-app/daybook/internal/cli"
)

func backupManager(appCtx *cli.Context) (*backup.Manager, error) {
	if appCtx.Local == nil {
		return nil, fmt.Errorf("backups only apply to the local store; pass --db to select one")
	}
	return backup.NewManager(appCtx.DBPath), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(appCtx *cli.Context) error {
	m, err := backupManager(appCtx)
	if err != nil {
		return err
	}
	path, err := m.Create()
	if err != nil {
		return err
	}
	fmt.Printf("💾 Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(appCtx *cli.Context) error {
	m, err := backupManager(appCtx)
	if err != nil {
		return err
	}
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups yet.")
		return nil
	}

	fmt.Printf("Backups in %s:\n", m.Dir())
	for _, b := range backups {
		fmt.Printf("  %s  %s  %.1f KB\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			float64(b.Size)/1024)
	}
	return nil
}

type BackupRestoreCmd struct {
	Name string `arg:"" help:"Backup file name to restore (see 'backup list')."`
}

func (c *BackupRestoreCmd) Run(appCtx *cli.Context) error {
	m, err := backupManager(appCtx)
	if err != nil {
		return err
	}
	// The store holds the database open; release it before swapping the
	// file underneath.
	if err := appCtx.Local.Close(); err != nil {
		return err
	}
	if err := m.Restore(filepath.Join(m.Dir(), c.Name)); err != nil {
		return err
	}
	fmt.Printf("✅ Restored from %s\n", c.Name)
	return nil
}
