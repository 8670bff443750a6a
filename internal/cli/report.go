package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mrlokans/compendium/internal/annotations"
	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/database/policies"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/exporters"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/query"
)

type ReportCmd struct {
	Basic    ReportBasicCmd    `cmd:"" help:"Write a titled text report"`
	Passage  ReportPassageCmd  `cmd:"" help:"Write a passage report tied to the hermeneutical policy"`
	Parallel ReportParallelCmd `cmd:"" help:"Write a parallel translation report"`
}

type ReportBasicCmd struct {
	Title    string `arg:"" help:"Report title"`
	Body     string `help:"Inline body text"`
	BodyFile string `name:"body-file" help:"File whose contents become the body" type:"path"`
	Output   string `short:"o" help:"Output path, forced to .txt (default: reports dir)"`
}

func (c *ReportBasicCmd) Run(app *App) error {
	body := c.Body
	switch {
	case c.BodyFile != "":
		data, err := os.ReadFile(c.BodyFile)
		if err != nil {
			return fmt.Errorf("failed to read body file: %w", err)
		}
		body = string(data)
	case body == "":
		body = fmt.Sprintf("Placeholder report body for '%s'.", c.Title)
	}

	return app.writeReport(exporters.Basic(c.Title, body), c.Output, c.Title)
}

type ReportPassageCmd struct {
	Ref            string `arg:"" help:"Reference, e.g. \"John 3:16-18\""`
	Translation    string `short:"t" help:"Translation code (default from config)"`
	IncludeContext bool   `name:"include-context" help:"Add a context window around the first verse"`
	Before         int    `help:"Context verses before" default:"${context_before}"`
	After          int    `help:"Context verses after" default:"${context_after}"`
	Output         string `short:"o" help:"Output path, forced to .txt (default: reports dir)"`
}

func (c *ReportPassageCmd) Run(app *App) error {
	code := app.translationOrDefault(c.Translation)
	return app.withReadDB(func(db *database.Database) error {
		ctx := context.Background()
		svc := query.NewService(verses.NewRepository(db.DB), app.Resolver())

		rows := svc.Passage(ctx, c.Ref, code)
		if len(rows) == 0 {
			logging.Warn("no verses found for the requested passage, no report generated", "ref", c.Ref, "translation", code)
			return ErrNoResults
		}

		in := exporters.PassageInput{
			Ref:            c.Ref,
			Translation:    code,
			Passage:        rows,
			IncludeContext: c.IncludeContext,
			Policy:         policyInfo(ctx, db),
		}
		if c.IncludeContext {
			in.Context = svc.Context(ctx, c.Ref, code, c.Before, c.After)
		}
		in.Annotations = annotations.NewService(db.DB, app.Resolver()).ForVerses(ctx, rows)
		return app.writeReport(exporters.Passage(in), c.Output, c.Ref)
	})
}

type ReportParallelCmd struct {
	Ref          string   `arg:"" help:"Reference to compare"`
	Translations []string `arg:"" help:"Translation codes, e.g. KJV WEB"`
	Output       string   `short:"o" help:"Output path, forced to .txt (default: reports dir)"`
}

func (c *ReportParallelCmd) Run(app *App) error {
	codes := query.NormalizeCodes(c.Translations)
	return app.withReadDB(func(db *database.Database) error {
		ctx := context.Background()
		svc := query.NewService(verses.NewRepository(db.DB), app.Resolver())

		rows := svc.Parallel(ctx, c.Ref, codes)
		if len(rows) == 0 {
			logging.Warn("no parallel verses found, no report generated", "ref", c.Ref)
			return ErrNoResults
		}

		return app.writeReport(exporters.Parallel(exporters.ParallelInput{
			Ref:          c.Ref,
			Translations: codes,
			Rows:         rows,
			Policy:       policyInfo(ctx, db),
		}), c.Output, c.Ref)
	})
}

func (a *App) writeReport(r exporters.Report, output, label string) error {
	res, err := exporters.NewTextExporter(a.Config.Reports.Dir).Export(r, output, label)
	if err != nil {
		return err
	}
	a.printf("Report written: %s\n", res.Path)
	return nil
}

// policyInfo returns nil when the policy is missing or unreadable.
func policyInfo(ctx context.Context, db *database.Database) *exporters.PolicyInfo {
	p, err := policies.NewRepository(db.DB).Current(ctx)
	if err != nil {
		logging.Warn("could not read hermeneutical policy", database.ErrorAttrs(err)...)
		return nil
	}
	return exporters.PolicyFromEntity(p)
}
