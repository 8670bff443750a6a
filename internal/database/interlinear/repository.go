// Package interlinear stores Greek interlinear tokens and answers the
// cross-reference queries built on their shared Strong's numbers.
package interlinear

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/compendium/internal/entities"
)

const insertChunk = 100

// VerseMatch is a verse returned by a cross-reference query. Numbers holds
// the matched Strong's numbers in ascending order.
type VerseMatch struct {
	NormalizedRef string
	BookNum       int
	Chapter       int
	Verse         int
	Shared        int
	Numbers       []string
}

// NumberCount is a Strong's number with its occurrence count.
type NumberCount struct {
	StrongsNumber string
	Occurrences   int
}

type matchRow struct {
	NormalizedRef string
	BookNum       int
	Chapter       int
	Verse         int
	Shared        int
	Numbers       string
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertWords stores tokens, replacing existing ones at the same
// (normalized_ref, word_order).
func (r *Repository) UpsertWords(ctx context.Context, words []entities.InterlinearWord) error {
	if len(words) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "normalized_ref"}, {Name: "word_order"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"book_num", "chapter", "verse", "greek", "translit",
				"strongs_number", "parsing", "parsing_full", "gloss",
			}),
		}).
		CreateInBatches(words, insertChunk).Error
}

// Words returns the tokens of one verse in word order.
func (r *Repository) Words(ctx context.Context, normalizedRef string) ([]entities.InterlinearWord, error) {
	var rows []entities.InterlinearWord
	err := r.db.WithContext(ctx).
		Where("normalized_ref = ?", normalizedRef).
		Order("word_order").
		Find(&rows).Error
	return rows, err
}

// SharedWith returns verses sharing at least minShared distinct Strong's
// numbers with the verse at normalizedRef, most shared first. A limit of
// zero or less returns every match.
func (r *Repository) SharedWith(ctx context.Context, normalizedRef string, minShared, limit int) ([]VerseMatch, error) {
	q := `
SELECT normalized_ref, book_num, chapter, verse,
	COUNT(DISTINCT strongs_number) AS shared,
	GROUP_CONCAT(DISTINCT strongs_number) AS numbers
FROM interlinear_words
WHERE strongs_number IN (
	SELECT strongs_number FROM interlinear_words
	WHERE normalized_ref = ? AND strongs_number <> ''
)
AND normalized_ref <> ?
GROUP BY normalized_ref, book_num, chapter, verse
HAVING shared >= ?
ORDER BY shared DESC, book_num, chapter, verse`
	args := []any{normalizedRef, normalizedRef, minShared}
	if limit > 0 {
		q += "\nLIMIT ?"
		args = append(args, limit)
	}
	return r.matches(ctx, q, args...)
}

// ContainingAll returns verses whose tokens include every given Strong's
// number, in canon order. A limit of zero or less returns every match.
func (r *Repository) ContainingAll(ctx context.Context, numbers []string, limit int) ([]VerseMatch, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	q := `
SELECT normalized_ref, book_num, chapter, verse,
	COUNT(DISTINCT strongs_number) AS shared,
	GROUP_CONCAT(DISTINCT strongs_number) AS numbers
FROM interlinear_words
WHERE strongs_number IN ?
GROUP BY normalized_ref, book_num, chapter, verse
HAVING shared = ?
ORDER BY book_num, chapter, verse`
	args := []any{numbers, len(numbers)}
	if limit > 0 {
		q += "\nLIMIT ?"
		args = append(args, limit)
	}
	return r.matches(ctx, q, args...)
}

// Occurrences returns up to limit verses containing number, in canon order.
func (r *Repository) Occurrences(ctx context.Context, number string, limit int) ([]VerseMatch, error) {
	q := `
SELECT normalized_ref, book_num, chapter, verse,
	1 AS shared, strongs_number AS numbers
FROM interlinear_words
WHERE strongs_number = ?
GROUP BY normalized_ref, book_num, chapter, verse
ORDER BY book_num, chapter, verse`
	args := []any{number}
	if limit > 0 {
		q += "\nLIMIT ?"
		args = append(args, limit)
	}
	return r.matches(ctx, q, args...)
}

// CoOccurring counts the other Strong's numbers appearing in refs, keeping
// those seen at least minCount times, most frequent first.
func (r *Repository) CoOccurring(ctx context.Context, refs []string, exclude string, minCount, limit int) ([]NumberCount, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	var out []NumberCount
	err := r.db.WithContext(ctx).Raw(`
SELECT strongs_number, COUNT(*) AS occurrences
FROM interlinear_words
WHERE normalized_ref IN ? AND strongs_number <> ? AND strongs_number <> ''
GROUP BY strongs_number
HAVING occurrences >= ?
ORDER BY occurrences DESC, strongs_number
LIMIT ?`, refs, exclude, minCount, limit).Scan(&out).Error
	return out, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.InterlinearWord{}).Count(&n).Error
	return n, err
}

func (r *Repository) matches(ctx context.Context, q string, args ...any) ([]VerseMatch, error) {
	var rows []matchRow
	if err := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]VerseMatch, 0, len(rows))
	for _, row := range rows {
		numbers := strings.Split(row.Numbers, ",")
		sort.Slice(numbers, func(i, j int) bool { return lessStrongs(numbers[i], numbers[j]) })
		out = append(out, VerseMatch{
			NormalizedRef: row.NormalizedRef,
			BookNum:       row.BookNum,
			Chapter:       row.Chapter,
			Verse:         row.Verse,
			Shared:        row.Shared,
			Numbers:       numbers,
		})
	}
	return out, nil
}

// lessStrongs orders "G26" before "G976" before "G1161".
func lessStrongs(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
