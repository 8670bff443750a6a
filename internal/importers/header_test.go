package importers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "bookname", normalizeHeader("Book Name"))
	assert.Equal(t, "bookname", normalizeHeader(" book_name "))
	assert.Equal(t, "versetext", normalizeHeader("Verse-Text"))
	assert.Equal(t, "book", normalizeHeader("\ufeffBook"))
}

func TestDetectColumns(t *testing.T) {
	cols, err := detectColumns([]string{"Verse_Text", "BK", "Ch", "vs"})
	require.NoError(t, err)
	assert.Equal(t, columnMap{book: 1, chapter: 2, verse: 3, text: 0}, cols)

	cols, err = detectColumns([]string{"Book Name", "Chapter", "Verse Num", "Content", "Notes"})
	require.NoError(t, err)
	assert.Equal(t, columnMap{book: 0, chapter: 1, verse: 2, text: 3}, cols)

	_, err = detectColumns([]string{"Book", "Chapter", "Scripture"})
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "verse, text")
}

func TestParseNumber(t *testing.T) {
	n, err := parseNumber("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = parseNumber("3.0")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parseNumber("3.5")
	assert.Error(t, err)
	_, err = parseNumber("three")
	assert.Error(t, err)
}
