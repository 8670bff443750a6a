// Package imports tracks bulk import runs so that interrupted imports are
// visible after the fact.
package imports

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/compendium/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Start records a running session. The caller assigns the ID.
func (r *Repository) Start(ctx context.Context, s *entities.ImportSession) error {
	s.Status = entities.ImportStatusRunning
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// Finish stores the final counters and marks the session completed, or
// failed when runErr is non-nil.
func (r *Repository) Finish(ctx context.Context, s *entities.ImportSession, rowErrors []string, runErr error) error {
	now := time.Now().UTC()
	s.CompletedAt = &now
	s.Status = entities.ImportStatusCompleted
	if runErr != nil {
		s.Status = entities.ImportStatusFailed
		rowErrors = append(rowErrors, runErr.Error())
	}
	s.Errors = strings.Join(rowErrors, "\n")

	return r.db.WithContext(ctx).Model(s).Updates(map[string]any{
		"status":        s.Status,
		"rows_parsed":   s.RowsParsed,
		"rows_inserted": s.RowsInserted,
		"rows_skipped":  s.RowsSkipped,
		"errors":        s.Errors,
		"completed_at":  s.CompletedAt,
	}).Error
}

// Recent returns the latest sessions, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// Incomplete returns sessions that never reached completed.
func (r *Repository) Incomplete(ctx context.Context) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	err := r.db.WithContext(ctx).
		Where("status <> ?", entities.ImportStatusCompleted).
		Order("started_at DESC").
		Find(&sessions).Error
	return sessions, err
}
