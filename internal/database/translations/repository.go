// Package translations manages the translation registry.
package translations

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/compendium/internal/entities"
)

// Repository handles translation registry operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert registers a translation or refreshes an existing registration.
func (r *Repository) Upsert(ctx context.Context, t *entities.Translation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "language", "source_notes", "source_hash", "imported_at"}),
		}).
		Create(t).Error
}

// Get returns the registered translation, or nil when unknown.
func (r *Repository) Get(ctx context.Context, code string) (*entities.Translation, error) {
	var t entities.Translation
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) List(ctx context.Context) ([]entities.Translation, error) {
	var list []entities.Translation
	err := r.db.WithContext(ctx).Order("code").Find(&list).Error
	return list, err
}
