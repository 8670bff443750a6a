package cli

import (
	"context"
	"errors"

	"github.com/mrlokans/compendium/internal/annotations"
	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/lexicon"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/query"
)

// withReadDB opens the database read-only for fn. A missing database is
// logged and treated as an empty result.
func (a *App) withReadDB(fn func(*database.Database) error) error {
	db, err := a.openRead()
	if err != nil {
		if errors.Is(err, database.ErrDatabaseMissing) {
			logging.Warn("database not found, run init-schema and import-bible first", "path", a.Config.Database.Path)
			return ErrNoResults
		}
		return err
	}
	defer db.Close()

	return fn(db)
}

func (a *App) withQuery(fn func(*query.Service) error) error {
	return a.withReadDB(func(db *database.Database) error {
		return fn(query.NewService(verses.NewRepository(db.DB), a.Resolver()))
	})
}

type SearchCmd struct {
	Query       string `arg:"" help:"Text to search for"`
	Translation string `short:"t" help:"Limit to one translation code"`
	Limit       int    `short:"n" help:"Maximum number of results (default from config)"`
}

func (c *SearchCmd) Run(app *App) error {
	limit := c.Limit
	if limit <= 0 {
		limit = app.Config.Query.SearchLimit
	}
	return app.withQuery(func(svc *query.Service) error {
		rows := svc.Search(context.Background(), c.Query, limit, c.Translation)
		if len(rows) == 0 {
			return ErrNoResults
		}
		printVerses(app.Out, app.Resolver().Canon(), rows)
		return nil
	})
}

type PassageCmd struct {
	Ref         string `arg:"" help:"Reference, e.g. \"John 3:16-18\""`
	Translation string `short:"t" help:"Translation code (default from config)"`
	Notes       bool   `help:"Also print study notes and Greek margins"`
}

func (c *PassageCmd) Run(app *App) error {
	return app.withReadDB(func(db *database.Database) error {
		ctx := context.Background()
		svc := query.NewService(verses.NewRepository(db.DB), app.Resolver())
		rows := svc.Passage(ctx, c.Ref, app.translationOrDefault(c.Translation))
		if len(rows) == 0 {
			return ErrNoResults
		}
		printVerses(app.Out, app.Resolver().Canon(), rows)
		if c.Notes {
			printAnnotations(app.Out, annotations.NewService(db.DB, app.Resolver()).ForVerses(ctx, rows))
		}
		return nil
	})
}

type ContextCmd struct {
	Ref         string `arg:"" help:"Reference; the window centres on its first verse"`
	Translation string `short:"t" help:"Translation code (default from config)"`
	Before      int    `help:"Verses before the centre" default:"${context_before}"`
	After       int    `help:"Verses after the centre" default:"${context_after}"`
}

func (c *ContextCmd) Run(app *App) error {
	return app.withQuery(func(svc *query.Service) error {
		rows := svc.Context(context.Background(), c.Ref, app.translationOrDefault(c.Translation), c.Before, c.After)
		if len(rows) == 0 {
			return ErrNoResults
		}
		printVerses(app.Out, app.Resolver().Canon(), rows)
		return nil
	})
}

type CompareCmd struct {
	Ref          string   `arg:"" help:"Reference to compare"`
	Translations []string `arg:"" help:"Translation codes, e.g. KJV WEB"`
}

func (c *CompareCmd) Run(app *App) error {
	codes := query.NormalizeCodes(c.Translations)
	return app.withQuery(func(svc *query.Service) error {
		rows := svc.Parallel(context.Background(), c.Ref, codes)
		if len(rows) == 0 {
			return ErrNoResults
		}
		printParallel(app.Out, app.Resolver().Canon(), codes, rows)
		return nil
	})
}

type StrongsCmd struct {
	Number string `arg:"" help:"Strong's number, e.g. G26 or H430"`
}

func (c *StrongsCmd) Run(app *App) error {
	db, err := app.openRead()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := lexicon.NewService(db.DB).Lookup(context.Background(), c.Number)
	if err != nil {
		return err
	}

	app.printf("%s (%s)\n", entry.StrongsNumber, entry.Language)
	app.printf("  Lemma: %s\n", entry.Lemma)
	if entry.Gloss != "" {
		app.printf("  Gloss: %s\n", entry.Gloss)
	}
	if entry.Extra != "" {
		app.printf("  %s\n", entry.Extra)
	}
	return nil
}
