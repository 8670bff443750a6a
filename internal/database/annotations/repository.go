// Package annotations stores the study layer hung on the canonical verse
// spine: core passage units, verse notes and Greek margins.
package annotations

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/compendium/internal/entities"
)

const insertChunk = 100

// InstallResult counts rows created by one install. Rows already present
// under the same (unit_id, verse_id, sort_order) are not counted.
type InstallResult struct {
	NotesAdded   int64
	MarginsAdded int64
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CanonicalIDs maps normalized references ("ROM.8.18") to canonical_verses
// ids. References without a canonical row are absent from the map.
func (r *Repository) CanonicalIDs(ctx context.Context, refs []string) (map[string]uint, error) {
	out := make(map[string]uint, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	var rows []entities.CanonicalVerse
	err := r.db.WithContext(ctx).
		Select("id, normalized_ref").
		Where("normalized_ref IN ?", refs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.NormalizedRef] = row.ID
	}
	return out, nil
}

// UpsertPassages inserts core passage units, replacing the metadata of
// units that already exist.
func (r *Repository) UpsertPassages(ctx context.Context, passages []entities.CorePassage) error {
	if len(passages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unit_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "title", "range_ref", "summary_md", "tags"}),
		}).
		CreateInBatches(passages, insertChunk).Error
}

// Passage returns a unit by id, or nil when absent.
func (r *Repository) Passage(ctx context.Context, unitID string) (*entities.CorePassage, error) {
	var p entities.CorePassage
	err := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Install writes notes and margins in one transaction. Every row must
// already carry a canonical VerseID and the unit must exist.
func (r *Repository) Install(ctx context.Context, notes []entities.VerseNote, margins []entities.GreekMargin) (InstallResult, error) {
	var res InstallResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < len(notes); i += insertChunk {
			end := min(i+insertChunk, len(notes))
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(notes[i:end])
			if result.Error != nil {
				return fmt.Errorf("failed to insert verse notes: %w", result.Error)
			}
			res.NotesAdded += result.RowsAffected
		}
		for i := 0; i < len(margins); i += insertChunk {
			end := min(i+insertChunk, len(margins))
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(margins[i:end])
			if result.Error != nil {
				return fmt.Errorf("failed to insert greek margins: %w", result.Error)
			}
			res.MarginsAdded += result.RowsAffected
		}
		return nil
	})
	return res, err
}

// NotesFor returns the notes of the given canonical verses ordered by
// verse, then sort_order.
func (r *Repository) NotesFor(ctx context.Context, verseIDs []uint) ([]entities.VerseNote, error) {
	if len(verseIDs) == 0 {
		return nil, nil
	}
	var rows []entities.VerseNote
	err := r.db.WithContext(ctx).
		Where("verse_id IN ?", verseIDs).
		Order("verse_id, sort_order, id").
		Find(&rows).Error
	return rows, err
}

// MarginsFor returns the Greek margins of the given canonical verses
// ordered by verse, then sort_order.
func (r *Repository) MarginsFor(ctx context.Context, verseIDs []uint) ([]entities.GreekMargin, error) {
	if len(verseIDs) == 0 {
		return nil, nil
	}
	var rows []entities.GreekMargin
	err := r.db.WithContext(ctx).
		Where("verse_id IN ?", verseIDs).
		Order("verse_id, sort_order, id").
		Find(&rows).Error
	return rows, err
}

// Counts returns row totals of the study tables, interlinear included.
func (r *Repository) Counts(ctx context.Context) (entities.AnnotationCounts, error) {
	var c entities.AnnotationCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&entities.CorePassage{}).Count(&c.CorePassages).Error; err != nil {
		return c, err
	}
	if err := db.Model(&entities.VerseNote{}).Count(&c.VerseNotes).Error; err != nil {
		return c, err
	}
	if err := db.Model(&entities.GreekMargin{}).Count(&c.GreekMargins).Error; err != nil {
		return c, err
	}
	err := db.Model(&entities.InterlinearWord{}).Count(&c.InterlinearWords).Error
	return c, err
}
