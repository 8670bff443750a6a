// Package spine builds the canonical verse spine: one canonical_verses row
// per normalized reference regardless of translation, linked back from
// verses_normalized.verse_id.
package spine

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const insertCanonical = `
INSERT OR IGNORE INTO canonical_verses (book_num, book_code, chapter, verse, normalized_ref)
SELECT MIN(book_num), book_code, chapter, verse, normalized_ref
FROM verses_normalized
WHERE normalized_ref <> ''
GROUP BY book_code, chapter, verse, normalized_ref`

const attachVerseIDs = `
UPDATE verses_normalized
SET verse_id = (
	SELECT cv.id FROM canonical_verses cv
	WHERE cv.normalized_ref = verses_normalized.normalized_ref
)
WHERE verse_id IS NULL`

// Result summarises a spine build.
type Result struct {
	Canonical int64 // rows in canonical_verses after the build
	Added     int64 // canonical rows created by this build
	Attached  int64 // verses with a verse_id
	Total     int64 // verses overall
}

// Missing is the number of verses still lacking a verse_id.
func (r Result) Missing() int64 {
	return r.Total - r.Attached
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Build is idempotent: existing canonical rows and attached ids are kept.
func (r *Repository) Build(ctx context.Context) (Result, error) {
	var res Result

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := tx.Exec(insertCanonical)
		if insert.Error != nil {
			return fmt.Errorf("failed to populate canonical_verses: %w", insert.Error)
		}
		res.Added = insert.RowsAffected

		if err := tx.Exec(attachVerseIDs).Error; err != nil {
			return fmt.Errorf("failed to attach verse ids: %w", err)
		}

		if err := tx.Table("canonical_verses").Count(&res.Canonical).Error; err != nil {
			return err
		}
		if err := tx.Table("verses_normalized").Where("verse_id IS NOT NULL").Count(&res.Attached).Error; err != nil {
			return err
		}
		return tx.Table("verses_normalized").Count(&res.Total).Error
	})
	return res, err
}
