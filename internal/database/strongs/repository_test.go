package strongs

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
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "strongs.sqlite")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.StrongsEntry{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}
	return NewRepository(db), cleanup
}

func TestUpsertAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, []entities.StrongsEntry{
		{StrongsNumber: "G26", Language: "greek", Lemma: "ἀγάπη", Gloss: "love"},
		{StrongsNumber: "H430", Language: "hebrew", Lemma: "אֱלֹהִים", Gloss: "God"},
	}))

	require.NoError(t, repo.UpsertBatch(ctx, []entities.StrongsEntry{
		{StrongsNumber: "G26", Language: "greek", Lemma: "ἀγάπη", Gloss: "love, charity"},
	}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	e, err := repo.Get(ctx, " g26 ")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "love, charity", e.Gloss)

	missing, err := repo.Get(ctx, "G9999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertMissing_KeepsExisting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, []entities.StrongsEntry{
		{StrongsNumber: "G26", Language: "greek", Lemma: "ἀγάπη", Gloss: "love"},
	}))

	added, err := repo.InsertMissing(ctx, []entities.StrongsEntry{
		{StrongsNumber: "G26", Language: "el", Lemma: "ἀγάπην", Gloss: "other"},
		{StrongsNumber: "G976", Language: "el", Lemma: "Βίβλος", Gloss: "a book"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)

	e, err := repo.Get(ctx, "G26")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "love", e.Gloss)

	added, err = repo.InsertMissing(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, added)
}
