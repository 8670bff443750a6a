// Package verses provides read and bulk-write access to verses_normalized.
//
// # Usage
//
//	repo := verses.NewRepository(db)
//	rows, err := repo.Range(ctx, verses.RangeQuery{
//		Translations: []string{"KJV"},
//		BookNum:      43, Chapter: 3, VerseStart: 16, VerseEnd: 18,
//	})
package verses

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/compendium/internal/entities"
)

// insertChunk keeps a single INSERT well below SQLite's bound-variable limit.
const insertChunk = 100

const refLookupChunk = 500

// RangeQuery addresses an inclusive verse range in one chapter across one
// or more translations. Codes must already be upper-cased.
type RangeQuery struct {
	Translations []string
	BookNum      int
	Chapter      int
	VerseStart   int
	VerseEnd     int
}

// Repository handles all verse database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new verses repository. Pass a transaction handle
// to scope writes to that transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Range returns the rows of q ordered by verse, then translation code.
// Zero rows is not an error.
func (r *Repository) Range(ctx context.Context, q RangeQuery) ([]entities.Verse, error) {
	if len(q.Translations) == 0 {
		return nil, nil
	}

	var rows []entities.Verse
	err := r.db.WithContext(ctx).
		Where("translation_code IN ?", q.Translations).
		Where("book_num = ? AND chapter = ?", q.BookNum, q.Chapter).
		Where("verse BETWEEN ? AND ?", q.VerseStart, q.VerseEnd).
		Order("verse ASC, translation_code ASC").
		Find(&rows).Error
	return rows, err
}

// Search returns verses whose text contains text. An empty translation
// searches every translation. A limit of zero or less applies no LIMIT
// clause and returns every match.
func (r *Repository) Search(ctx context.Context, text, translation string, limit int) ([]entities.Verse, error) {
	query := r.db.WithContext(ctx).Where("text LIKE ?", "%"+text+"%")
	if translation != "" {
		query = query.Where("translation_code = ?", translation)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []entities.Verse
	err := query.Order("translation_code, book_num, chapter, verse").Find(&rows).Error
	return rows, err
}

// TextByRefs maps normalized references to their text in one translation.
// References the translation lacks are absent from the map.
func (r *Repository) TextByRefs(ctx context.Context, translation string, refs []string) (map[string]string, error) {
	out := make(map[string]string, len(refs))
	for i := 0; i < len(refs); i += refLookupChunk {
		end := min(i+refLookupChunk, len(refs))
		var rows []entities.Verse
		err := r.db.WithContext(ctx).
			Select("normalized_ref", "text").
			Where("translation_code = ? AND normalized_ref IN ?", translation, refs[i:end]).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, v := range rows {
			out[v.NormalizedRef] = v.Text
		}
	}
	return out, nil
}

// UpsertBatch inserts verses, replacing text of rows that already exist
// under the same (translation_code, book_num, chapter, verse) key.
func (r *Repository) UpsertBatch(ctx context.Context, rows []entities.Verse) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "translation_code"},
				{Name: "book_num"},
				{Name: "chapter"},
				{Name: "verse"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"book_code", "normalized_ref", "text", "word_count"}),
		}).
		CreateInBatches(rows, insertChunk).Error
}

// DeleteTranslation removes every verse of a translation.
func (r *Repository) DeleteTranslation(ctx context.Context, code string) (int64, error) {
	result := r.db.WithContext(ctx).Where("translation_code = ?", code).Delete(&entities.Verse{})
	return result.RowsAffected, result.Error
}

// CountByTranslation returns the number of stored verses per translation.
func (r *Repository) CountByTranslation(ctx context.Context) ([]entities.TranslationCount, error) {
	var counts []entities.TranslationCount
	err := r.db.WithContext(ctx).
		Model(&entities.Verse{}).
		Select("translation_code, COUNT(*) AS verse_count").
		Group("translation_code").
		Order("translation_code").
		Scan(&counts).Error
	return counts, err
}

// DistinctTranslations returns the codes present in verses_normalized.
func (r *Repository) DistinctTranslations(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&entities.Verse{}).
		Distinct("translation_code").
		Order("translation_code").
		Pluck("translation_code", &codes).Error
	return codes, err
}

// Count returns the total number of stored verses.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Verse{}).Count(&n).Error
	return n, err
}
