package importers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/compendium/internal/audit"
	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/entities"
)

func setupPipeline(t *testing.T) (*database.Database, *Pipeline, string) {
	t.Helper()
	dir := t.TempDir()

	db, err := database.NewDatabase(filepath.Join(dir, "compendium.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c, err := canon.Load("")
	require.NoError(t, err)

	auditDir := filepath.Join(dir, "audit")
	return db, NewPipeline(db.DB, canon.NewResolver(c), audit.NewAuditor(auditDir)), auditDir
}

func kjvConverter(rows ...RawVerse) Converter {
	return NewCSVConverter(rows, Source{
		Format:   FormatCSV,
		FilePath: "/data/kjv.csv",
		Hash:     "deadbeef",
		Skipped:  []string{"Line 9: empty verse text"},
	})
}

func countVerses(t *testing.T, db *database.Database, code string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(&entities.Verse{}).Where("translation_code = ?", code).Count(&n).Error)
	return n
}

func TestPipeline_Import(t *testing.T) {
	db, pipeline, auditDir := setupPipeline(t)
	ctx := context.Background()

	conv := kjvConverter(
		RawVerse{Line: 2, Book: "Genesis", Chapter: 1, Verse: 1, Text: "  In the beginning God created the heaven and the earth. "},
		RawVerse{Line: 3, Book: "gen", Chapter: 1, Verse: 2, Text: "And the earth was without form"},
		RawVerse{Line: 4, Book: "Nehmiah", Chapter: 1, Verse: 1, Text: "misspelled"},
	)

	res, err := pipeline.Import(ctx, conv, Options{TranslationCode: "kjv"})
	require.NoError(t, err)

	assert.Equal(t, "KJV", res.TranslationCode)
	assert.Equal(t, 3, res.RowsParsed)
	assert.Equal(t, 2, res.RowsPrepared)
	assert.Equal(t, 2, res.RowsInserted)
	assert.Equal(t, 2, res.RowsSkipped)
	assert.Equal(t, []string{"Line 9: empty verse text", `Line 4: could not resolve book "Nehmiah"`}, res.Errors)
	assert.Equal(t, string(entities.ImportStatusCompleted), res.Status)
	assert.NotEmpty(t, res.SessionID)

	var v entities.Verse
	require.NoError(t, db.DB.Where("translation_code = ? AND verse = ?", "KJV", 1).First(&v).Error)
	assert.Equal(t, "GEN", v.BookCode)
	assert.Equal(t, "GEN.1.1", v.NormalizedRef)
	assert.Equal(t, "In the beginning God created the heaven and the earth.", v.Text)
	assert.Equal(t, 10, v.WordCount)

	var tr entities.Translation
	require.NoError(t, db.DB.First(&tr, "code = ?", "KJV").Error)
	assert.Equal(t, "KJV", tr.Name)
	assert.Equal(t, "en", tr.Language)
	assert.Equal(t, "Imported from CSV file kjv.csv", tr.SourceNotes)
	assert.Equal(t, "deadbeef", tr.SourceHash)

	var session entities.ImportSession
	require.NoError(t, db.DB.First(&session, "id = ?", res.SessionID).Error)
	assert.Equal(t, entities.ImportStatusCompleted, session.Status)
	assert.Equal(t, 2, session.RowsInserted)
	assert.NotNil(t, session.CompletedAt)

	_, err = os.Stat(filepath.Join(auditDir, res.SessionID+".json"))
	assert.NoError(t, err)
}

func TestPipeline_DryRun(t *testing.T) {
	db, pipeline, auditDir := setupPipeline(t)

	res, err := pipeline.Import(context.Background(),
		kjvConverter(RawVerse{Line: 2, Book: "GEN", Chapter: 1, Verse: 1, Text: "In the beginning"}),
		Options{TranslationCode: "KJV", DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.RowsPrepared)
	assert.Equal(t, 0, res.RowsInserted)
	assert.Empty(t, res.SessionID)
	assert.Equal(t, int64(0), countVerses(t, db, "KJV"))

	require.NotEmpty(t, res.AuditFile)
	data, err := os.ReadFile(filepath.Join(auditDir, res.AuditFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dry_run": true`)
}

func TestPipeline_Overwrite(t *testing.T) {
	db, pipeline, _ := setupPipeline(t)
	ctx := context.Background()

	_, err := pipeline.Import(ctx, kjvConverter(
		RawVerse{Line: 2, Book: "GEN", Chapter: 1, Verse: 1, Text: "one"},
		RawVerse{Line: 3, Book: "GEN", Chapter: 1, Verse: 2, Text: "two"},
	), Options{TranslationCode: "KJV"})
	require.NoError(t, err)

	t.Run("upsert keeps rows not in the new source", func(t *testing.T) {
		_, err := pipeline.Import(ctx, kjvConverter(
			RawVerse{Line: 2, Book: "GEN", Chapter: 1, Verse: 1, Text: "one again"},
		), Options{TranslationCode: "KJV"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), countVerses(t, db, "KJV"))
	})

	t.Run("overwrite replaces the translation", func(t *testing.T) {
		res, err := pipeline.Import(ctx, kjvConverter(
			RawVerse{Line: 2, Book: "EXO", Chapter: 1, Verse: 1, Text: "Now these are the names"},
		), Options{TranslationCode: "KJV", Overwrite: true, TranslationName: "King James Version"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.RowsDeleted)
		assert.Equal(t, int64(1), countVerses(t, db, "KJV"))

		var tr entities.Translation
		require.NoError(t, db.DB.First(&tr, "code = ?", "KJV").Error)
		assert.Equal(t, "King James Version", tr.Name)
	})
}

func TestPipeline_FailedBatch(t *testing.T) {
	rows := make([]RawVerse, 0, 5)
	for i := 1; i <= 5; i++ {
		rows = append(rows, RawVerse{Line: i + 1, Book: "GEN", Chapter: 1, Verse: i, Text: fmt.Sprintf("verse %d", i)})
	}
	rows[3].Text = "FAIL"

	installFailTrigger := func(t *testing.T, db *database.Database) {
		require.NoError(t, db.DB.Exec(`CREATE TRIGGER reject_fail BEFORE INSERT ON verses_normalized
			WHEN NEW.text = 'FAIL' BEGIN SELECT RAISE(ABORT, 'rejected'); END;`).Error)
	}

	t.Run("batched import keeps committed batches", func(t *testing.T) {
		db, pipeline, _ := setupPipeline(t)
		installFailTrigger(t, db)

		res, err := pipeline.Import(context.Background(), kjvConverter(rows...),
			Options{TranslationCode: "KJV", BatchSize: 2})
		require.Error(t, err)

		assert.Equal(t, 2, res.RowsInserted)
		assert.Equal(t, 1, res.Batches)
		assert.Equal(t, int64(2), countVerses(t, db, "KJV"))

		var session entities.ImportSession
		require.NoError(t, db.DB.First(&session, "id = ?", res.SessionID).Error)
		assert.Equal(t, entities.ImportStatusFailed, session.Status)
		assert.Contains(t, session.Errors, "rejected")

		var registered int64
		require.NoError(t, db.DB.Model(&entities.Translation{}).Count(&registered).Error)
		assert.Equal(t, int64(0), registered, "translation is only registered after a complete import")
	})

	t.Run("atomic import writes nothing", func(t *testing.T) {
		db, pipeline, _ := setupPipeline(t)
		installFailTrigger(t, db)

		res, err := pipeline.Import(context.Background(), kjvConverter(rows...),
			Options{TranslationCode: "KJV", BatchSize: 2, Atomic: true})
		require.Error(t, err)

		assert.Equal(t, 0, res.RowsInserted)
		assert.Equal(t, int64(0), countVerses(t, db, "KJV"))
		assert.Equal(t, string(entities.ImportStatusFailed), res.Status)
	})
}

func TestPipeline_NoUsableRows(t *testing.T) {
	_, pipeline, _ := setupPipeline(t)

	res, err := pipeline.Import(context.Background(),
		kjvConverter(RawVerse{Line: 2, Book: "Atlantis", Chapter: 1, Verse: 1, Text: "x"}),
		Options{TranslationCode: "KJV"})
	assert.ErrorIs(t, err, ErrNoUsableRows)
	assert.Equal(t, 2, res.RowsSkipped)
	assert.True(t, IsInputError(err))
}

func TestPipeline_RequiresCanonAndCode(t *testing.T) {
	db, _, _ := setupPipeline(t)
	ctx := context.Background()
	conv := kjvConverter(RawVerse{Line: 2, Book: "GEN", Chapter: 1, Verse: 1, Text: "x"})

	empty := NewPipeline(db.DB, canon.NewResolver(&canon.Canon{}), nil)
	_, err := empty.Import(ctx, conv, Options{TranslationCode: "KJV"})
	assert.ErrorIs(t, err, ErrEmptyCanon)

	c, err := canon.Load("")
	require.NoError(t, err)
	noCode := NewPipeline(db.DB, canon.NewResolver(c), nil)
	_, err = noCode.Import(ctx, conv, Options{TranslationCode: "  "})
	assert.ErrorIs(t, err, ErrMissingTranslationCode)
}
