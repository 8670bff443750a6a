// Package strongs stores Strong's lexicon entries.
package strongs

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/compendium/internal/entities"
)

const insertChunk = 200

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertBatch inserts entries, replacing existing ones by Strong's number.
func (r *Repository) UpsertBatch(ctx context.Context, entries []entities.StrongsEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "strongs_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"language", "lemma", "gloss", "extra"}),
		}).
		CreateInBatches(entries, insertChunk).Error
}

// InsertMissing adds entries whose number is not stored yet and leaves
// existing ones untouched. Returns the number of rows added.
func (r *Repository) InsertMissing(ctx context.Context, entries []entities.StrongsEntry) (int64, error) {
	var added int64
	for i := 0; i < len(entries); i += insertChunk {
		end := min(i+insertChunk, len(entries))
		result := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "strongs_number"}}, DoNothing: true}).
			Create(entries[i:end])
		if result.Error != nil {
			return added, result.Error
		}
		added += result.RowsAffected
	}
	return added, nil
}

// Get looks up an entry by number, case-insensitively. Returns nil when absent.
func (r *Repository) Get(ctx context.Context, number string) (*entities.StrongsEntry, error) {
	var e entities.StrongsEntry
	err := r.db.WithContext(ctx).
		Where("strongs_number = ?", strings.ToUpper(strings.TrimSpace(number))).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.StrongsEntry{}).Count(&n).Error
	return n, err
}
