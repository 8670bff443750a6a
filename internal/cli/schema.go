package cli

import (
	"context"
	"fmt"

	"github.com/mrlokans/compendium/internal/database/spine"
)

type InitSchemaCmd struct{}

func (c *InitSchemaCmd) Run(app *App) error {
	db, err := app.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	app.printf("Schema initialized: %s\n", db.Path)
	return nil
}

type BuildSpineCmd struct{}

func (c *BuildSpineCmd) Run(app *App) error {
	db, err := app.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := spine.NewRepository(db.DB).Build(context.Background())
	if err != nil {
		return fmt.Errorf("failed to build verse spine: %w", err)
	}

	app.println("=== Canonical Verse Spine ===")
	app.printf("Canonical verses: %d (%d new)\n", res.Canonical, res.Added)
	app.printf("Verses attached:  %d/%d\n", res.Attached, res.Total)
	if res.Missing() > 0 {
		app.printf("WARNING: %d verse(s) without a canonical id\n", res.Missing())
	}
	return nil
}
