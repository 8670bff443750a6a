package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/compendium/internal/annotations"
	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/interlinear"
)

type ImportAnnotationsCmd struct {
	CorePassages string `name:"core-passages" help:"Core passages JSON file" type:"existingfile"`
	VerseNotes   string `name:"verse-notes" help:"Verse notes JSON file for one unit" type:"existingfile"`
	GreekMargins string `name:"greek-margins" help:"Greek margins JSON file for one unit" type:"existingfile"`
	DryRun       bool   `name:"dry-run" help:"Validate and resolve without writing"`
}

func (c *ImportAnnotationsCmd) Run(app *App) error {
	db, err := app.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	if c.DryRun {
		app.println("DRY RUN MODE - No changes will be made")
	}
	src := annotations.Sources{CorePassages: c.CorePassages, VerseNotes: c.VerseNotes, GreekMargins: c.GreekMargins}
	res, err := annotations.NewService(db.DB, app.Resolver()).Install(context.Background(), src, c.DryRun)
	if err != nil {
		var invalid *annotations.ValidationError
		if errors.As(err, &invalid) {
			app.printf("%s failed validation:\n", invalid.Path)
			for _, p := range invalid.Problems {
				app.printf("  - %s\n", p)
			}
		}
		return fmt.Errorf("annotation import failed: %w", err)
	}

	app.println("=== Annotation Import Summary ===")
	if len(res.Units) > 0 {
		app.printf("Units:             %s\n", strings.Join(res.Units, ", "))
	}
	app.printf("Passages upserted: %d\n", res.PassagesUpserted)
	if res.DryRun {
		app.printf("Notes parsed:      %d\n", res.NotesParsed)
		app.printf("Margins parsed:    %d\n", res.MarginsParsed)
		app.println("\nDry run complete. Use without --dry-run to import.")
		return nil
	}
	app.printf("Notes added:       %d/%d\n", res.NotesAdded, res.NotesParsed)
	app.printf("Margins added:     %d/%d\n", res.MarginsAdded, res.MarginsParsed)
	app.printf("Session:           %s\n", res.SessionID)
	return nil
}

type ImportInterlinearCmd struct {
	File    string `arg:"" help:"Berean tables CSV export (optionally .xz compressed)" type:"existingfile"`
	Verbose bool   `short:"v" help:"List every skipped row"`
}

func (c *ImportInterlinearCmd) Run(app *App) error {
	db, err := app.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := interlinear.NewService(db.DB, app.Resolver()).ImportFile(context.Background(), c.File)
	app.println("=== Interlinear Import Summary ===")
	app.printf("Words:       %d\n", res.Words)
	app.printf("Definitions: %d parsed, %d new lexicon entries\n", res.DefinitionsParsed, res.DefinitionsAdded)
	app.printf("Skipped:     %d\n", len(res.Skipped))
	if res.SessionID != "" {
		app.printf("Session:     %s\n", res.SessionID)
	}
	printRowErrors(app, res.Skipped, c.Verbose)
	if err != nil {
		return fmt.Errorf("interlinear import failed: %w", err)
	}
	return nil
}

func (a *App) withInterlinear(fn func(*interlinear.Service) error) error {
	return a.withReadDB(func(db *database.Database) error {
		return fn(interlinear.NewService(db.DB, a.Resolver()))
	})
}

type InterlinearCmd struct {
	Ref string `arg:"" help:"Single verse, e.g. \"John 3:16\""`
}

func (c *InterlinearCmd) Run(app *App) error {
	return app.withInterlinear(func(svc *interlinear.Service) error {
		words := svc.Words(context.Background(), c.Ref)
		if len(words) == 0 {
			return ErrNoResults
		}
		app.printf("%s (%d words)\n", c.Ref, len(words))
		printWords(app.Out, words)
		return nil
	})
}

type XrefCmd struct {
	Verse   XrefVerseCmd   `cmd:"" help:"Verses sharing Strong's numbers with a verse"`
	Strongs XrefStrongsCmd `cmd:"" help:"Verses containing every given Strong's number"`
	Network XrefNetworkCmd `cmd:"" help:"Verses using a Strong's number and its co-occurring numbers"`
}

type XrefVerseCmd struct {
	Ref         string `arg:"" help:"Single verse, e.g. \"1 John 4:8\""`
	MinShared   int    `name:"min-shared" help:"Minimum shared Strong's numbers" default:"2"`
	Limit       int    `short:"n" help:"Maximum number of verses (default from config)"`
	Translation string `short:"t" help:"Translation for verse text (default from config)"`
}

func (c *XrefVerseCmd) Run(app *App) error {
	limit := c.Limit
	if limit <= 0 {
		limit = app.Config.Query.SearchLimit
	}
	code := app.translationOrDefault(c.Translation)
	return app.withInterlinear(func(svc *interlinear.Service) error {
		ctx := context.Background()
		res, ok := svc.ForVerse(ctx, c.Ref, code, c.MinShared, limit)
		if !ok {
			return ErrNoResults
		}

		app.printf("[%s] %s\n    %s\n\n", code, res.Ref, res.Text)
		app.println("Strong's numbers in this verse:")
		for _, w := range res.Words {
			app.printf("  %-7s %s (%s)\n", w.StrongsNumber, w.Greek, w.Gloss)
		}
		if len(res.Matches) == 0 {
			app.printf("\nNo verses share %d or more Strong's numbers.\n", c.MinShared)
			return nil
		}
		app.printf("\n%d verse(s) sharing %d or more:\n\n", len(res.Matches), c.MinShared)
		printXrefs(app, res.Matches)
		return nil
	})
}

type XrefStrongsCmd struct {
	Numbers     []string `arg:"" help:"Strong's numbers, e.g. G26 G2316"`
	Limit       int      `short:"n" help:"Maximum number of verses (default from config)"`
	Translation string   `short:"t" help:"Translation for verse text (default from config)"`
}

func (c *XrefStrongsCmd) Run(app *App) error {
	limit := c.Limit
	if limit <= 0 {
		limit = app.Config.Query.SearchLimit
	}
	code := app.translationOrDefault(c.Translation)
	return app.withInterlinear(func(svc *interlinear.Service) error {
		ctx := context.Background()
		for _, e := range svc.Definitions(ctx, c.Numbers) {
			app.printf("%s %s: %s\n", e.StrongsNumber, e.Lemma, e.Gloss)
		}
		matches := svc.ContainingAll(ctx, c.Numbers, code, limit)
		if len(matches) == 0 {
			return ErrNoResults
		}
		app.printf("\n%d verse(s) containing all:\n\n", len(matches))
		printXrefs(app, matches)
		return nil
	})
}

type XrefNetworkCmd struct {
	Number      string `arg:"" help:"Strong's number, e.g. G26"`
	MaxVerses   int    `name:"max-verses" help:"Maximum verses to list" default:"10"`
	Translation string `short:"t" help:"Translation for verse text (default from config)"`
}

func (c *XrefNetworkCmd) Run(app *App) error {
	code := app.translationOrDefault(c.Translation)
	return app.withInterlinear(func(svc *interlinear.Service) error {
		net, ok := svc.Network(context.Background(), c.Number, code, c.MaxVerses)
		if !ok {
			return ErrNoResults
		}
		if net.Entry != nil {
			app.printf("%s %s: %s\n\n", net.Entry.StrongsNumber, net.Entry.Lemma, net.Entry.Gloss)
		}
		app.printf("%d verse(s):\n\n", len(net.Verses))
		printXrefs(app, net.Verses)
		if len(net.CoOccurring) > 0 {
			app.println("Co-occurring numbers:")
			for _, r := range net.CoOccurring {
				app.printf("  %-7s x%d  %s\n", r.StrongsNumber, r.Occurrences, r.Gloss)
			}
		}
		return nil
	})
}

func printXrefs(app *App, rows []interlinear.Xref) {
	for _, x := range rows {
		app.printf("%s  [%s]\n", x.Ref, strings.Join(x.Numbers, ", "))
		app.printf("    %s\n\n", x.Text)
	}
}
