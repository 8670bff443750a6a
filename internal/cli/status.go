package cli

import (
	"context"
	"errors"

	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/status"
)

type StatusCmd struct {
	Recent int `help:"Number of recent import sessions to show" default:"5"`
}

func (c *StatusCmd) Run(app *App) error {
	db, err := app.openRead()
	if err != nil {
		if errors.Is(err, database.ErrDatabaseMissing) {
			app.printf("Database: %s\n", app.Config.Database.Path)
			app.println("WARNING: database file not found (run init-schema)")
			return nil
		}
		return err
	}
	defer db.Close()

	status.NewService(db.DB, db.Path).Collect(context.Background(), c.Recent).Print(app.Out)
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	app.printf("compendium %s (commit %s)\n", app.Version, app.Commit)
	return nil
}
