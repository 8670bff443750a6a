package lexicon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/entities"
)

const sampleLexicon = `strongs_number,lemma,language,gloss,extra
g26,ἀγάπη,greek,love,
H430,אֱלֹהִים,,God,plural of majesty
G5485,,greek,grace,
,λόγος,greek,word,
`

func TestParseStrongsCSV(t *testing.T) {
	entries, skipped, err := ParseStrongsCSV(strings.NewReader(sampleLexicon), "hebrew")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, entities.StrongsEntry{StrongsNumber: "G26", Lemma: "ἀγάπη", Language: "greek", Gloss: "love"}, entries[0])
	assert.Equal(t, "hebrew", entries[1].Language)
	assert.Equal(t, "plural of majesty", entries[1].Extra)

	require.Len(t, skipped, 2)
	assert.Contains(t, skipped[0], "Line 4:")
	assert.Contains(t, skipped[1], "Line 5:")
}

func TestParseStrongsCSV_NoDefaultLanguage(t *testing.T) {
	entries, skipped, err := ParseStrongsCSV(strings.NewReader("strongs_number,lemma\nG26,ἀγάπη\n"), "")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Len(t, skipped, 1)
}

func TestParseStrongsCSV_MissingColumns(t *testing.T) {
	_, _, err := ParseStrongsCSV(strings.NewReader("number,word\nG26,love\n"), "greek")
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, _, err = ParseStrongsCSV(strings.NewReader(""), "greek")
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestService_ImportAndLookup(t *testing.T) {
	dir := t.TempDir()
	db, err := database.NewDatabase(filepath.Join(dir, "compendium.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	path := filepath.Join(dir, "strongs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleLexicon), 0o644))

	svc := NewService(db.DB)
	ctx := context.Background()

	res, err := svc.ImportFile(ctx, path, "hebrew")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Len(t, res.Skipped, 2)

	entry, err := svc.Lookup(ctx, "g26")
	require.NoError(t, err)
	assert.Equal(t, "love", entry.Gloss)

	_, err = svc.Lookup(ctx, "G9999")
	assert.ErrorIs(t, err, ErrNotFound)

	var session entities.ImportSession
	require.NoError(t, db.DB.First(&session, "id = ?", res.SessionID).Error)
	assert.Equal(t, entities.ImportKindStrongs, session.Kind)
	assert.Equal(t, entities.ImportStatusCompleted, session.Status)
}
