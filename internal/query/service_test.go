package query

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/logging"
)

// fakeStore serves rows from memory and records the last range query.
type fakeStore struct {
	rows      []entities.Verse
	err       error
	lastRange *verses.RangeQuery
	searched  bool
}

func (f *fakeStore) Range(_ context.Context, q verses.RangeQuery) ([]entities.Verse, error) {
	f.lastRange = &q
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool)
	for _, c := range q.Translations {
		want[c] = true
	}
	var out []entities.Verse
	for _, v := range f.rows {
		if want[v.TranslationCode] && v.BookNum == q.BookNum && v.Chapter == q.Chapter &&
			v.VerseNum >= q.VerseStart && v.VerseNum <= q.VerseEnd {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, text, translation string, limit int) ([]entities.Verse, error) {
	f.searched = true
	if f.err != nil {
		return nil, f.err
	}
	var out []entities.Verse
	for _, v := range f.rows {
		if translation != "" && v.TranslationCode != translation {
			continue
		}
		if bytes.Contains([]byte(v.Text), []byte(text)) {
			out = append(out, v)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	c, err := canon.Load("")
	require.NoError(t, err)
	return NewService(store, canon.NewResolver(c))
}

func sampleRows() []entities.Verse {
	return []entities.Verse{
		{TranslationCode: "KJV", BookNum: 1, BookCode: "GEN", Chapter: 1, VerseNum: 1, Text: "In the beginning God created the heaven and the earth."},
		{TranslationCode: "KJV", BookNum: 1, BookCode: "GEN", Chapter: 1, VerseNum: 2, Text: "And the earth was without form, and void"},
		{TranslationCode: "KJV", BookNum: 1, BookCode: "GEN", Chapter: 1, VerseNum: 3, Text: "And God said, Let there be light"},
		{TranslationCode: "KJV", BookNum: 1, BookCode: "GEN", Chapter: 1, VerseNum: 4, Text: "And God saw the light, that it was good"},
		{TranslationCode: "KJV", BookNum: 43, BookCode: "JHN", Chapter: 3, VerseNum: 16, Text: "For God so loved the world"},
		{TranslationCode: "KJV", BookNum: 43, BookCode: "JHN", Chapter: 3, VerseNum: 17, Text: "For God sent not his Son"},
		{TranslationCode: "BSB", BookNum: 43, BookCode: "JHN", Chapter: 3, VerseNum: 17, Text: "For God did not send His Son"},
		{TranslationCode: "KJV", BookNum: 16, BookCode: "NEH", Chapter: 1, VerseNum: 1, Text: "The words of Nehemiah the son of Hachaliah."},
	}
}

func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.InitWithWriter(&buf, logging.LevelWarn, logging.FormatText)
	t.Cleanup(func() { logging.Init(logging.LevelInfo, logging.FormatText) })
	return &buf
}

func TestPassage(t *testing.T) {
	store := &fakeStore{rows: sampleRows()}
	svc := newTestService(t, store)
	ctx := context.Background()

	rows := svc.Passage(ctx, "John 3:16-17", "kjv")
	require.Len(t, rows, 2)
	assert.Equal(t, 16, rows[0].VerseNum)
	assert.Equal(t, []string{"KJV"}, store.lastRange.Translations)

	single := svc.Passage(ctx, "John 3:16", "KJV")
	ranged := svc.Passage(ctx, "John 3:16-16", "KJV")
	assert.Equal(t, single, ranged)
	require.Len(t, single, 1)

	lower := svc.Passage(ctx, "genesis 1:1", "KJV")
	upper := svc.Passage(ctx, "Genesis 1:1", "KJV")
	assert.Equal(t, upper, lower)
	require.Len(t, upper, 1)

	assert.Empty(t, svc.Passage(ctx, "John 3:17-16", "KJV"))
	assert.Empty(t, svc.Passage(ctx, "Genesis 999:999", "KJV"))
}

func TestPassage_InputErrorsDegradeToEmpty(t *testing.T) {
	buf := captureWarnings(t)
	store := &fakeStore{rows: sampleRows()}
	svc := newTestService(t, store)
	ctx := context.Background()

	for _, ref := range []string{"", "Genesis1:1", "Genesis 1 1", "Nehmiah 1:1"} {
		assert.Empty(t, svc.Passage(ctx, ref, "KJV"), "ref %q", ref)
	}
	assert.Nil(t, store.lastRange, "no fetch for unparseable or unresolvable references")
	assert.Contains(t, buf.String(), "could not resolve book name")
	assert.Contains(t, buf.String(), "could not parse reference")
}

func TestPassage_StorageErrorDegradesToEmpty(t *testing.T) {
	buf := captureWarnings(t)
	svc := newTestService(t, &fakeStore{err: errors.New("no such table: verses_normalized")})

	assert.Empty(t, svc.Passage(context.Background(), "John 3:16", "KJV"))
	assert.Contains(t, buf.String(), "no such table")
}

func TestPassage_EmptyCanon(t *testing.T) {
	store := &fakeStore{rows: sampleRows()}
	svc := NewService(store, canon.NewResolver(&canon.Canon{}))

	assert.Empty(t, svc.Passage(context.Background(), "John 3:16", "KJV"))
}

func TestContext(t *testing.T) {
	store := &fakeStore{rows: sampleRows()}
	svc := newTestService(t, store)
	ctx := context.Background()

	rows := svc.Context(ctx, "Genesis 1:1", "KJV", 2, 2)
	require.NotNil(t, store.lastRange)
	assert.Equal(t, 1, store.lastRange.VerseStart)
	assert.Equal(t, 3, store.lastRange.VerseEnd)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].VerseNum)
	assert.Equal(t, 3, rows[2].VerseNum)

	svc.Context(ctx, "Genesis 1:3", "KJV", 1, 1)
	assert.Equal(t, 2, store.lastRange.VerseStart)
	assert.Equal(t, 4, store.lastRange.VerseEnd)

	svc.Context(ctx, "Genesis 1:3-4", "KJV", -5, 0)
	assert.Equal(t, 3, store.lastRange.VerseStart)
	assert.Equal(t, 3, store.lastRange.VerseEnd)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		center, before, after int
		wantStart, wantEnd    int
	}{
		{1, 2, 2, 1, 3},
		{2, 2, 2, 1, 4},
		{10, 2, 2, 8, 12},
		{5, 0, 0, 5, 5},
		{5, -1, -1, 5, 5},
	}
	for _, tt := range tests {
		start, end := Window(tt.center, tt.before, tt.after)
		assert.Equal(t, tt.wantStart, start)
		assert.Equal(t, tt.wantEnd, end)
	}
}

func TestParallel(t *testing.T) {
	store := &fakeStore{rows: sampleRows()}
	svc := newTestService(t, store)
	ctx := context.Background()

	t.Run("missing translation gets placeholder", func(t *testing.T) {
		rows := svc.Parallel(ctx, "John 3:16", []string{"KJV", "BSB"})
		require.Len(t, rows, 1)
		assert.Equal(t, 16, rows[0].Verse)
		assert.Equal(t, "JHN", rows[0].BookCode)
		assert.Equal(t, "For God so loved the world", rows[0].TextFor("KJV"))
		assert.Equal(t, MissingTranslationPlaceholder, rows[0].TextFor("BSB"))
		assert.Equal(t, []string{"KJV", "BSB"}, store.lastRange.Translations)
	})

	t.Run("one query regrouped per verse", func(t *testing.T) {
		rows := svc.Parallel(ctx, "John 3:16-17", []string{"kjv", " bsb ", "KJV"})
		require.Len(t, rows, 2)
		assert.Equal(t, 17, rows[1].Verse)
		assert.Equal(t, "For God sent not his Son", rows[1].TextFor("kjv"))
		assert.Equal(t, "For God did not send His Son", rows[1].TextFor("BSB"))
		assert.Equal(t, []string{"KJV", "BSB"}, store.lastRange.Translations)
	})

	t.Run("no translations", func(t *testing.T) {
		store.lastRange = nil
		assert.Empty(t, svc.Parallel(ctx, "John 3:16", nil))
		assert.Empty(t, svc.Parallel(ctx, "John 3:16", []string{" "}))
		assert.Nil(t, store.lastRange)
	})

	t.Run("verse no translation has", func(t *testing.T) {
		assert.Empty(t, svc.Parallel(ctx, "John 3:30", []string{"KJV", "BSB"}))
	})

	t.Run("interior gap is left out", func(t *testing.T) {
		gappy := newTestService(t, &fakeStore{rows: []entities.Verse{
			{TranslationCode: "KJV", BookNum: 43, BookCode: "JHN", Chapter: 3, VerseNum: 16, Text: "sixteen"},
			{TranslationCode: "BSB", BookNum: 43, BookCode: "JHN", Chapter: 3, VerseNum: 18, Text: "eighteen"},
		}})
		rows := gappy.Parallel(ctx, "John 3:16-18", []string{"KJV", "BSB"})
		require.Len(t, rows, 2)
		assert.Equal(t, 16, rows[0].Verse)
		assert.Equal(t, MissingTranslationPlaceholder, rows[0].TextFor("BSB"))
		assert.Equal(t, 18, rows[1].Verse)
		assert.Equal(t, MissingTranslationPlaceholder, rows[1].TextFor("KJV"))
	})
}

func TestSearch(t *testing.T) {
	store := &fakeStore{rows: sampleRows()}
	svc := newTestService(t, store)
	ctx := context.Background()

	rows := svc.Search(ctx, "God", 2, "")
	assert.Len(t, rows, 2)

	rows = svc.Search(ctx, "  God  ", 20, "bsb")
	require.Len(t, rows, 1)
	assert.Equal(t, "BSB", rows[0].TranslationCode)

	rows = svc.Search(ctx, "God", 0, "")
	assert.Len(t, rows, 6, "zero limit returns every match")

	store.searched = false
	assert.Empty(t, svc.Search(ctx, "   ", 20, ""))
	assert.False(t, store.searched)
}

func TestSearch_StorageError(t *testing.T) {
	captureWarnings(t)
	svc := newTestService(t, &fakeStore{err: errors.New("database is locked")})

	assert.Empty(t, svc.Search(context.Background(), "God", 10, ""))
}

func TestParallelRow_TextFor(t *testing.T) {
	row := ParallelRow{Texts: map[string]string{"KJV": "text"}}
	assert.Equal(t, "text", row.TextFor("KJV"))
	assert.Equal(t, MissingTranslationPlaceholder, row.TextFor("WEB"))
}
