package interlinear

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/reference"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "interlinear.sqlite")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.InterlinearWord{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}
	return NewRepository(db), cleanup
}

func word(book int, code string, chapter, verse, order int, greek, strongs string) entities.InterlinearWord {
	return entities.InterlinearWord{
		NormalizedRef: reference.NormalizedRef(code, chapter, verse),
		WordOrder:     order,
		BookNum:       book,
		Chapter:       chapter,
		VerseNum:      verse,
		Greek:         greek,
		StrongsNumber: strongs,
	}
}

// seed builds three verses. 1JN 4:8 shares G26 and G2316 with JHN 3:16,
// and G26 and G3588 with 1CO 13:4.
func seed(t *testing.T, repo *Repository) {
	words := []entities.InterlinearWord{
		word(62, "1JN", 4, 8, 1, "ἀγάπη", "G26"),
		word(62, "1JN", 4, 8, 2, "θεός", "G2316"),
		word(62, "1JN", 4, 8, 3, "ὁ", "G3588"),
		word(43, "JHN", 3, 16, 1, "ἠγάπησεν", "G25"),
		word(43, "JHN", 3, 16, 2, "θεὸς", "G2316"),
		word(43, "JHN", 3, 16, 3, "ἀγάπη", "G26"),
		word(43, "JHN", 3, 16, 4, "καί", ""),
		word(46, "1CO", 13, 4, 1, "ἀγάπη", "G26"),
		word(46, "1CO", 13, 4, 2, "ὁ", "G3588"),
	}
	require.NoError(t, repo.UpsertWords(context.Background(), words))
}

func TestUpsertWords_ReplacesByPosition(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	seed(t, repo)

	fixed := word(43, "JHN", 3, 16, 4, "καὶ", "G2532")
	require.NoError(t, repo.UpsertWords(ctx, []entities.InterlinearWord{fixed}))

	words, err := repo.Words(ctx, "JHN.3.16")
	require.NoError(t, err)
	require.Len(t, words, 4)
	assert.Equal(t, "G25", words[0].StrongsNumber)
	assert.Equal(t, "G2532", words[3].StrongsNumber)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}

func TestSharedWith(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	seed(t, repo)

	matches, err := repo.SharedWith(ctx, "1JN.4.8", 1, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "JHN.3.16", matches[0].NormalizedRef)
	assert.Equal(t, 2, matches[0].Shared)
	assert.Equal(t, []string{"G26", "G2316"}, matches[0].Numbers)
	assert.Equal(t, "1CO.13.4", matches[1].NormalizedRef)
	assert.Equal(t, []string{"G26", "G3588"}, matches[1].Numbers)

	matches, err = repo.SharedWith(ctx, "1JN.4.8", 2, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2, "1CO 13:4 shares G26 and G3588")

	matches, err = repo.SharedWith(ctx, "1JN.4.8", 1, 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = repo.SharedWith(ctx, "REV.1.1", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestContainingAll(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	seed(t, repo)

	matches, err := repo.ContainingAll(ctx, []string{"G26", "G2316"}, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "JHN.3.16", matches[0].NormalizedRef, "canon order")
	assert.Equal(t, "1JN.4.8", matches[1].NormalizedRef)

	none, err := repo.ContainingAll(ctx, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOccurrencesAndCoOccurring(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	seed(t, repo)

	occ, err := repo.Occurrences(ctx, "G26", 10)
	require.NoError(t, err)
	require.Len(t, occ, 3)
	assert.Equal(t, 43, occ[0].BookNum)

	refs := []string{occ[0].NormalizedRef, occ[1].NormalizedRef, occ[2].NormalizedRef}
	co, err := repo.CoOccurring(ctx, refs, "G26", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, []NumberCount{
		{StrongsNumber: "G2316", Occurrences: 2},
		{StrongsNumber: "G3588", Occurrences: 2},
	}, co)
}
