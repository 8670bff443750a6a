// Package policies stores the write-once hermeneutical policy row.
package policies

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/compendium/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Current returns the stored policy, or nil when none has been initialised.
func (r *Repository) Current(ctx context.Context) (*entities.HermeneuticalPolicy, error) {
	var p entities.HermeneuticalPolicy
	err := r.db.WithContext(ctx).Order("id").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the policy row. The database refuses later edits.
func (r *Repository) Create(ctx context.Context, p *entities.HermeneuticalPolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}
