package annotations

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

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "annotations.sqlite")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.CanonicalVerse{},
		&entities.CorePassage{},
		&entities.VerseNote{},
		&entities.GreekMargin{},
		&entities.InterlinearWord{},
	))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}
	return db, NewRepository(db), cleanup
}

func seedSpine(t *testing.T, db *gorm.DB) []entities.CanonicalVerse {
	rows := []entities.CanonicalVerse{
		{BookNum: 45, BookCode: "ROM", Chapter: 8, VerseNum: 18, NormalizedRef: "ROM.8.18"},
		{BookNum: 45, BookCode: "ROM", Chapter: 8, VerseNum: 19, NormalizedRef: "ROM.8.19"},
	}
	require.NoError(t, db.Create(&rows).Error)
	return rows
}

func TestCanonicalIDs(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()
	spine := seedSpine(t, db)

	ids, err := repo.CanonicalIDs(context.Background(), []string{"ROM.8.18", "ROM.8.19", "ROM.8.99"})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, spine[0].ID, ids["ROM.8.18"])
	_, ok := ids["ROM.8.99"]
	assert.False(t, ok)

	empty, err := repo.CanonicalIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpsertPassages(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	unit := entities.CorePassage{UnitID: "rom8", Category: "suffering", Title: "Glory", RangeRef: "Romans 8:18-25", SummaryMD: "first"}
	require.NoError(t, repo.UpsertPassages(ctx, []entities.CorePassage{unit}))

	unit.SummaryMD = "second"
	require.NoError(t, repo.UpsertPassages(ctx, []entities.CorePassage{unit}))

	got, err := repo.Passage(ctx, "rom8")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.SummaryMD)

	missing, err := repo.Passage(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInstall_IsIdempotent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	spine := seedSpine(t, db)

	require.NoError(t, repo.UpsertPassages(ctx, []entities.CorePassage{
		{UnitID: "rom8", Category: "suffering", Title: "Glory", RangeRef: "Romans 8:18-19", SummaryMD: "summary"},
	}))

	notes := func() []entities.VerseNote {
		return []entities.VerseNote{
			{VerseID: spine[1].ID, UnitID: "rom8", NoteKind: "midrash", NoteMD: "creation waits", SortOrder: 1},
			{VerseID: spine[0].ID, UnitID: "rom8", NoteKind: "midrash", NoteMD: "present sufferings", SortOrder: 1},
		}
	}
	margins := func() []entities.GreekMargin {
		return []entities.GreekMargin{
			{VerseID: spine[0].ID, UnitID: "rom8", LemmaGreek: "δόξα", Translit: "doxa", Morph: "N-ASF", Gloss: "glory", SortOrder: 2},
			{VerseID: spine[0].ID, UnitID: "rom8", LemmaGreek: "πάθημα", Translit: "pathēma", Morph: "N-NPN", Gloss: "suffering", SortOrder: 1},
		}
	}

	res, err := repo.Install(ctx, notes(), margins())
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.NotesAdded)
	assert.Equal(t, int64(2), res.MarginsAdded)

	res, err = repo.Install(ctx, notes(), margins())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NotesAdded)
	assert.Equal(t, int64(0), res.MarginsAdded)

	gotNotes, err := repo.NotesFor(ctx, []uint{spine[0].ID, spine[1].ID})
	require.NoError(t, err)
	require.Len(t, gotNotes, 2)
	assert.Equal(t, "present sufferings", gotNotes[0].NoteMD)

	gotMargins, err := repo.MarginsFor(ctx, []uint{spine[0].ID})
	require.NoError(t, err)
	require.Len(t, gotMargins, 2)
	assert.Equal(t, "pathēma", gotMargins[0].Translit)
	assert.Equal(t, "doxa", gotMargins[1].Translit)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.AnnotationCounts{CorePassages: 1, VerseNotes: 2, GreekMargins: 2}, counts)

	none, err := repo.NotesFor(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
