package lexicon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"
	"gorm.io/gorm"

	"github.com/mrlokans/compendium/internal/database/imports"
	"github.com/mrlokans/compendium/internal/database/strongs"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/importers"
)

// ImportResult summarises a lexicon import.
type ImportResult struct {
	SessionID string
	Imported  int
	Skipped   []string
}

type Service struct {
	repo     *strongs.Repository
	sessions *imports.Repository
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		repo:     strongs.NewRepository(db),
		sessions: imports.NewRepository(db),
	}
}

// ImportFile loads a lexicon CSV (optionally .xz compressed) and upserts
// every complete row.
func (s *Service) ImportFile(ctx context.Context, path, defaultLanguage string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read lexicon: %w", err)
	}

	var r io.Reader = bytes.NewReader(data)
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return ImportResult{}, fmt.Errorf("failed to open xz stream: %w", err)
		}
		r = xr
	}

	entries, skipped, err := ParseStrongsCSV(r, defaultLanguage)
	if err != nil {
		return ImportResult{}, err
	}

	session := &entities.ImportSession{
		ID:           uuid.NewString(),
		Kind:         entities.ImportKindStrongs,
		SourcePath:   path,
		SourceFormat: string(importers.FormatCSV),
		SourceHash:   importers.Fingerprint(data),
		RowsParsed:   len(entries) + len(skipped),
		RowsSkipped:  len(skipped),
	}
	if err := s.sessions.Start(ctx, session); err != nil {
		return ImportResult{}, fmt.Errorf("failed to record import session: %w", err)
	}

	runErr := s.repo.UpsertBatch(ctx, entries)
	if runErr == nil {
		session.RowsInserted = len(entries)
	} else {
		runErr = fmt.Errorf("failed to upsert lexicon entries: %w", runErr)
	}
	if err := s.sessions.Finish(ctx, session, skipped, runErr); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to finish import session: %w", err)
	}

	return ImportResult{SessionID: session.ID, Imported: session.RowsInserted, Skipped: skipped}, runErr
}

// Lookup returns the entry for a Strong's number such as "G26" or "h430".
func (s *Service) Lookup(ctx context.Context, number string) (*entities.StrongsEntry, error) {
	entry, err := s.repo.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.ToUpper(strings.TrimSpace(number)))
	}
	return entry, nil
}
