package cli

import (
	"context"
	"fmt"

	"github.com/mrlokans/compendium/internal/audit"
	"github.com/mrlokans/compendium/internal/database/translations"
	"github.com/mrlokans/compendium/internal/importers"
	"github.com/mrlokans/compendium/internal/lexicon"
)

type ImportBibleCmd struct {
	File        string `arg:"" help:"Source file (.csv, .xlsx, .xlsm, .txt, optionally .xz compressed)" type:"existingfile"`
	Translation string `short:"t" required:"" help:"Translation code, e.g. KJV"`
	Name        string `help:"Translation display name (default: the code)"`
	Language    string `help:"Translation language" default:"en"`
	Format      string `help:"Override format detection: csv, xlsx, plaintext"`
	Sheet       string `help:"Excel worksheet (default: the active sheet)"`
	MaxRows     int    `name:"max-rows" help:"Stop after this many usable rows"`
	BatchSize   int    `name:"batch-size" help:"Rows per committed batch (default from config)"`
	Overwrite   bool   `help:"Delete existing verses of the translation first"`
	DryRun      bool   `name:"dry-run" help:"Parse and normalize without writing"`
	Atomic      bool   `help:"Write the whole import in a single transaction"`
	Verbose     bool   `short:"v" help:"List every skipped row"`
}

func (c *ImportBibleCmd) Run(app *App) error {
	app.println("Bible Import")
	app.println("============")
	if c.DryRun {
		app.println("DRY RUN MODE - No changes will be made")
	}
	app.printf("File: %s\n", c.File)

	opts := importers.LoadOptions{Sheet: c.Sheet, MaxRows: c.MaxRows}
	if c.Format != "" {
		f, err := importers.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		opts.Format = f
	}

	conv, err := importers.Load(c.File, opts)
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}

	db, err := app.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	batch := c.BatchSize
	if batch <= 0 {
		batch = app.Config.Import.BatchSize
	}

	pipeline := importers.NewPipeline(db.DB, app.Resolver(), audit.NewAuditor(app.Config.Audit.Dir))
	res, runErr := pipeline.Import(context.Background(), conv, importers.Options{
		TranslationCode: c.Translation,
		TranslationName: c.Name,
		Language:        c.Language,
		Overwrite:       c.Overwrite,
		DryRun:          c.DryRun,
		Atomic:          c.Atomic,
		BatchSize:       batch,
	})

	app.println("\n=== Import Summary ===")
	app.printf("Translation: %s\n", res.TranslationCode)
	app.printf("Format:      %s\n", res.SourceFormat.Label())
	app.printf("Parsed:      %d\n", res.RowsParsed)
	app.printf("Prepared:    %d\n", res.RowsPrepared)
	app.printf("Inserted:    %d\n", res.RowsInserted)
	app.printf("Skipped:     %d\n", res.RowsSkipped)
	if res.RowsDeleted > 0 {
		app.printf("Replaced:    %d existing verse(s)\n", res.RowsDeleted)
	}
	if res.SessionID != "" {
		app.printf("Session:     %s (%s)\n", res.SessionID, res.Status)
	}
	if res.AuditFile != "" {
		app.printf("Audit:       %s\n", res.AuditFile)
	}
	printRowErrors(app, res.Errors, c.Verbose)

	if runErr != nil {
		return fmt.Errorf("import failed: %w", runErr)
	}
	if c.DryRun {
		app.println("\nDry run complete. Use without --dry-run to import.")
		return nil
	}
	app.println("\nImport complete!")
	return nil
}

const rowErrorPreview = 10

func printRowErrors(app *App, errs []string, all bool) {
	if len(errs) == 0 {
		return
	}
	app.printf("\n%d row(s) skipped:\n", len(errs))
	shown := errs
	if !all && len(shown) > rowErrorPreview {
		shown = shown[:rowErrorPreview]
	}
	for _, e := range shown {
		app.printf("  [SKIP] %s\n", e)
	}
	if len(shown) < len(errs) {
		app.printf("  ... %d more (use --verbose to list all)\n", len(errs)-len(shown))
	}
}

type ImportStrongsCmd struct {
	File     string `arg:"" help:"Strong's lexicon CSV (optionally .xz compressed)" type:"existingfile"`
	Language string `required:"" help:"Language code for rows without one (he or el)"`
	Verbose  bool   `short:"v" help:"List every skipped row"`
}

func (c *ImportStrongsCmd) Run(app *App) error {
	db, err := app.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := lexicon.NewService(db.DB).ImportFile(context.Background(), c.File, c.Language)
	app.println("=== Strong's Import Summary ===")
	app.printf("Imported: %d\n", res.Imported)
	app.printf("Skipped:  %d\n", len(res.Skipped))
	printRowErrors(app, res.Skipped, c.Verbose)
	if err != nil {
		return fmt.Errorf("lexicon import failed: %w", err)
	}
	return nil
}

type ListTranslationsCmd struct{}

func (c *ListTranslationsCmd) Run(app *App) error {
	db, err := app.openRead()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := translations.NewRepository(db.DB).List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list translations: %w", err)
	}
	if len(list) == 0 {
		app.println("No translations registered.")
		return nil
	}
	for _, t := range list {
		app.printf("%-8s [%s] %s\n", t.Code, t.Language, t.Name)
		if t.SourceNotes != "" {
			app.printf("         %s\n", t.SourceNotes)
		}
	}
	return nil
}
