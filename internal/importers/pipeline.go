package importers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/compendium/internal/audit"
	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/database/imports"
	"github.com/mrlokans/compendium/internal/database/translations"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/services"
)

const DefaultBatchSize = 500

// Options controls a single translation import.
type Options struct {
	TranslationCode string
	TranslationName string // Defaults to the code
	Language        string // Defaults to "en"
	Overwrite       bool   // Delete existing rows of the translation first
	DryRun          bool   // Parse and normalize only
	Atomic          bool   // One transaction for the whole import instead of per batch
	BatchSize       int
}

// Result is the outcome of an import. It is also the audit record.
type Result struct {
	SessionID       string    `json:"session_id,omitempty"`
	TranslationCode string    `json:"translation_code"`
	SourcePath      string    `json:"source_path"`
	SourceFormat    Format    `json:"source_format"`
	SourceHash      string    `json:"source_hash"`
	RowsParsed      int       `json:"rows_parsed"`
	RowsPrepared    int       `json:"rows_prepared"`
	RowsInserted    int       `json:"rows_inserted"`
	RowsSkipped     int       `json:"rows_skipped"`
	RowsDeleted     int64     `json:"rows_deleted"`
	Batches         int       `json:"batches"`
	Errors          []string  `json:"errors,omitempty"`
	DryRun          bool      `json:"dry_run"`
	Atomic          bool      `json:"atomic"`
	Status          string    `json:"status"`
	StartedAt       time.Time `json:"started_at"`
	AuditFile       string    `json:"-"`
}

// Pipeline handles the common import workflow:
// convert → normalize → batched upsert → register translation.
type Pipeline struct {
	db       *gorm.DB
	resolver *canon.Resolver
	sessions services.SessionTracker
	auditor  *audit.Auditor
}

// NewPipeline creates an import pipeline. auditor may be nil.
func NewPipeline(db *gorm.DB, resolver *canon.Resolver, auditor *audit.Auditor) *Pipeline {
	return &Pipeline{
		db:       db,
		resolver: resolver,
		sessions: imports.NewRepository(db),
		auditor:  auditor,
	}
}

// Import normalizes the converter's rows and writes them.
//
// Without Options.Atomic each batch commits on its own; when a batch fails
// the earlier batches stay committed and the import session is marked
// failed. With Atomic nothing is written unless every row is.
func (p *Pipeline) Import(ctx context.Context, conv Converter, opts Options) (Result, error) {
	if p.resolver.Canon().Len() == 0 {
		return Result{}, ErrEmptyCanon
	}

	opts = withDefaults(opts)
	if opts.TranslationCode == "" {
		return Result{}, ErrMissingTranslationCode
	}
	raw, source := conv.Convert()
	prepared, unresolved := Normalize(raw, p.resolver, opts.TranslationCode)

	res := Result{
		TranslationCode: opts.TranslationCode,
		SourcePath:      source.FilePath,
		SourceFormat:    source.Format,
		SourceHash:      source.Hash,
		RowsParsed:      len(raw),
		RowsPrepared:    len(prepared),
		Errors:          append(append([]string{}, source.Skipped...), unresolved...),
		DryRun:          opts.DryRun,
		Atomic:          opts.Atomic,
		StartedAt:       time.Now().UTC(),
	}
	res.RowsSkipped = len(res.Errors)

	logging.Info("prepared verse rows",
		"translation", opts.TranslationCode,
		"parsed", res.RowsParsed,
		"prepared", res.RowsPrepared,
		"skipped", res.RowsSkipped)

	if len(prepared) == 0 {
		res.Status = string(entities.ImportStatusFailed)
		return res, ErrNoUsableRows
	}
	if opts.DryRun {
		res.Status = "dry_run"
		p.saveAudit(&res, nil)
		return res, nil
	}

	session := &entities.ImportSession{
		ID:              uuid.NewString(),
		Kind:            entities.ImportKindBible,
		TranslationCode: opts.TranslationCode,
		SourcePath:      source.FilePath,
		SourceFormat:    string(source.Format),
		SourceHash:      source.Hash,
		RowsParsed:      res.RowsParsed,
		RowsSkipped:     res.RowsSkipped,
		StartedAt:       res.StartedAt,
	}
	if err := p.sessions.Start(ctx, session); err != nil {
		return res, fmt.Errorf("failed to record import session: %w", err)
	}
	res.SessionID = session.ID

	translation := &entities.Translation{
		Code:        opts.TranslationCode,
		Name:        opts.TranslationName,
		Language:    opts.Language,
		SourceNotes: source.Notes(),
		SourceHash:  source.Hash,
		ImportedAt:  time.Now().UTC(),
	}

	var runErr error
	if opts.Atomic {
		runErr = p.writeAtomic(ctx, prepared, translation, opts, &res)
	} else {
		runErr = p.writeBatched(ctx, prepared, translation, opts, &res)
	}

	session.RowsInserted = res.RowsInserted
	res.Status = string(entities.ImportStatusCompleted)
	if runErr != nil {
		res.Status = string(entities.ImportStatusFailed)
	}
	if err := p.sessions.Finish(ctx, session, res.Errors, runErr); err != nil {
		logging.Warn("failed to finish import session", "session", session.ID, "error", err)
	}
	p.saveAudit(&res, runErr)

	return res, runErr
}

func (p *Pipeline) writeAtomic(ctx context.Context, rows []entities.Verse, t *entities.Translation, opts Options, res *Result) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := verses.NewRepository(tx)
		if opts.Overwrite {
			deleted, err := repo.DeleteTranslation(ctx, opts.TranslationCode)
			if err != nil {
				return fmt.Errorf("failed to delete existing verses: %w", err)
			}
			res.RowsDeleted = deleted
		}
		for _, batch := range chunk(rows, opts.BatchSize) {
			if err := repo.UpsertBatch(ctx, batch); err != nil {
				return fmt.Errorf("failed to insert verses: %w", err)
			}
			res.Batches++
		}
		return translations.NewRepository(tx).Upsert(ctx, t)
	})
	if err != nil {
		res.RowsDeleted = 0
		res.Batches = 0
		return err
	}
	res.RowsInserted = len(rows)
	return nil
}

func (p *Pipeline) writeBatched(ctx context.Context, rows []entities.Verse, t *entities.Translation, opts Options, res *Result) error {
	for i, batch := range chunk(rows, opts.BatchSize) {
		err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := verses.NewRepository(tx)
			if i == 0 && opts.Overwrite {
				deleted, err := repo.DeleteTranslation(ctx, opts.TranslationCode)
				if err != nil {
					return fmt.Errorf("failed to delete existing verses: %w", err)
				}
				res.RowsDeleted = deleted
			}
			return repo.UpsertBatch(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("batch %d failed after %d committed rows: %w", i+1, res.RowsInserted, err)
		}
		res.Batches++
		res.RowsInserted += len(batch)
		logging.Debug("committed batch", "batch", i+1, "rows", len(batch), "total", res.RowsInserted)
	}

	if err := translations.NewRepository(p.db).Upsert(ctx, t); err != nil {
		return fmt.Errorf("failed to register translation: %w", err)
	}
	return nil
}

func (p *Pipeline) saveAudit(res *Result, runErr error) {
	if p.auditor == nil {
		return
	}
	record := struct {
		*Result
		Error string `json:"error,omitempty"`
	}{Result: res}
	if runErr != nil {
		record.Error = runErr.Error()
	}

	var filename string
	var err error
	if res.SessionID == "" {
		filename, err = p.auditor.SaveJSON(record)
	} else {
		filename, err = p.auditor.SaveRecord(res.SessionID, record)
	}
	if err != nil {
		logging.Warn("failed to write import audit record", "error", err)
		return
	}
	res.AuditFile = filename
}

func withDefaults(opts Options) Options {
	opts.TranslationCode = strings.ToUpper(strings.TrimSpace(opts.TranslationCode))
	if strings.TrimSpace(opts.TranslationName) == "" {
		opts.TranslationName = opts.TranslationCode
	}
	if strings.TrimSpace(opts.Language) == "" {
		opts.Language = "en"
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return opts
}

func chunk(rows []entities.Verse, size int) [][]entities.Verse {
	var out [][]entities.Verse
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

// IsInputError reports whether err came from the source rather than storage.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptySource) ||
		errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrNoUsableRows)
}
