package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const johnPassagesJSON = `{"passages": [
  {"unit_id": "jhn3-love", "category": "gospel", "title": "God so loved",
   "range_ref": "John 3:16-17", "summary_md": "The sending of the Son.", "tags": "love"}
]}`

const johnNotesJSON = `{"unit_id": "jhn3-love", "passage": "John 3:16-17", "notes": [
  {"verse_ref": "John 3:16", "note_md": "Gave is an aorist.", "sort_order": 1, "title": "The gift"}
]}`

const johnMarginsJSON = `{"unit_id": "jhn3-love", "passage": "John 3:16-17", "annotations": [
  {"verse_ref": "John 3:16", "sort_order": 1, "lemma_greek": "κόσμος", "translit": "kosmos", "morph": "N-AMS", "gloss": "world"}
]}`

// bereanRow builds one row of the positional Berean tables export.
func bereanRow(ref, greek, gloss, number string) string {
	cols := make([]string, 21)
	cols[7] = ref
	cols[12] = greek
	cols[14] = gloss
	cols[17] = "N-NMS"
	cols[19] = number
	cols[20] = gloss
	return strings.Join(cols, ",")
}

func bereanTables() string {
	return strings.Join([]string{
		"Copyright Berean Bible,,,",
		bereanRow("John|3:16", "θεὸς", "God", "2316"),
		bereanRow("John|3:16", "κόσμον", "world", "2889"),
		bereanRow("John|3:16", "υἱὸν", "Son", "5207"),
		bereanRow("John|3:17", "θεὸς", "God", "2316"),
		bereanRow("John|3:17", "υἱὸν", "Son", "5207"),
		bereanRow("John|3:15", "πιστεύων", "believing", "4100"),
		bereanRow("Jhon|3:18", "κρίνεται", "judged", "2919"),
	}, "\n") + "\n"
}

func (e *testEnv) installAnnotations(t *testing.T) {
	t.Helper()
	e.importFixtures(t)
	require.NoError(t, e.run(t, "build-spine"))
	require.NoError(t, e.run(t, "import-annotations",
		"--core-passages", e.writeFile(t, "passages.json", johnPassagesJSON),
		"--verse-notes", e.writeFile(t, "notes.json", johnNotesJSON),
		"--greek-margins", e.writeFile(t, "margins.json", johnMarginsJSON)))
}

func TestImportAnnotations(t *testing.T) {
	env := newTestEnv(t)
	env.installAnnotations(t)

	out := env.out.String()
	assert.Contains(t, out, "=== Annotation Import Summary ===")
	assert.Contains(t, out, "Units:             jhn3-love\n")
	assert.Contains(t, out, "Passages upserted: 1\n")
	assert.Contains(t, out, "Notes added:       1/1\n")
	assert.Contains(t, out, "Margins added:     1/1\n")

	t.Run("reinstall adds nothing", func(t *testing.T) {
		require.NoError(t, env.run(t, "import-annotations", "--verse-notes", filepath.Join(env.dir, "notes.json")))
		assert.Contains(t, env.out.String(), "Notes added:       0/1\n")
	})

	t.Run("dry run", func(t *testing.T) {
		require.NoError(t, env.run(t, "import-annotations", "--greek-margins", filepath.Join(env.dir, "margins.json"), "--dry-run"))
		assert.Contains(t, env.out.String(), "DRY RUN MODE")
		assert.Contains(t, env.out.String(), "Margins parsed:    1\n")
	})

	t.Run("invalid file lists problems", func(t *testing.T) {
		bad := env.writeFile(t, "bad.json", `{"unit_id": "jhn3-love", "passage": "John 3:16", "notes": [{"verse_ref": "John 3:16"}]}`)
		err := env.run(t, "import-annotations", "--verse-notes", bad)
		require.Error(t, err)
		assert.Contains(t, env.out.String(), "  - Note 0: missing field 'note_md'\n")
	})

	t.Run("no files", func(t *testing.T) {
		assert.Error(t, env.run(t, "import-annotations"))
	})
}

func TestImportAnnotations_WithoutSpine(t *testing.T) {
	env := newTestEnv(t)
	env.importFixtures(t)

	err := env.run(t, "import-annotations",
		"--core-passages", env.writeFile(t, "passages.json", johnPassagesJSON),
		"--verse-notes", env.writeFile(t, "notes.json", johnNotesJSON))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "John 3:16 (JHN.3.16)")
	assert.Contains(t, err.Error(), "build-spine")
}

func TestPassage_Notes(t *testing.T) {
	env := newTestEnv(t)
	env.installAnnotations(t)

	require.NoError(t, env.run(t, "passage", "John 3:16-17", "--notes"))
	out := env.out.String()
	assert.Contains(t, out, "[KJV] John 3:17\n")
	assert.Contains(t, out, "Notes for JHN 3:16\n  [midrash] The gift\n    Gave is an aorist.\n")
	assert.Contains(t, out, "  [greek] κόσμος (kosmos) N-AMS: world\n")
	assert.NotContains(t, out, "JHN 3:17\n")

	require.NoError(t, env.run(t, "passage", "John 3:15", "--notes"))
	assert.Contains(t, env.out.String(), "(No study notes for this passage.)")

	require.NoError(t, env.run(t, "passage", "John 3:16"))
	assert.NotContains(t, env.out.String(), "Notes for")
}

func TestReportPassage_Annotations(t *testing.T) {
	env := newTestEnv(t)
	env.installAnnotations(t)

	require.NoError(t, env.run(t, "report", "passage", "John 3:16"))

	data, err := os.ReadFile(filepath.Join(env.app.Config.Reports.Dir, "passage_John_3_16.txt"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[Study Notes]\nJHN 3:16  (midrash) The gift\n    Gave is an aorist.\n")
	assert.Contains(t, content, "[Greek Margins]\nJHN 3:16  κόσμος (kosmos) N-AMS: world\n")

	require.NoError(t, env.run(t, "status"))
	assert.Contains(t, env.out.String(), "Study annotations: 1 core passage(s), 1 verse note(s), 1 Greek margin(s)")
}

func TestInterlinearCommands(t *testing.T) {
	env := newTestEnv(t)
	env.importFixtures(t)

	require.NoError(t, env.run(t, "import-interlinear", env.writeFile(t, "tables.csv", bereanTables()), "-v"))
	out := env.out.String()
	assert.Contains(t, out, "Words:       6\n")
	assert.Contains(t, out, "Definitions: 4 parsed, 4 new lexicon entries\n")
	assert.Contains(t, out, `[SKIP] Line 8: unknown book "Jhon"`)

	t.Run("interlinear", func(t *testing.T) {
		require.NoError(t, env.run(t, "interlinear", "John 3:16"))
		out := env.out.String()
		assert.True(t, strings.HasPrefix(out, "John 3:16 (3 words)\n"))
		assert.Contains(t, out, "κόσμον")
		assert.Contains(t, out, "G2889")

		assert.ErrorIs(t, env.run(t, "interlinear", "Romans 8:18"), ErrNoResults)
	})

	t.Run("xref verse", func(t *testing.T) {
		require.NoError(t, env.run(t, "xref", "verse", "John 3:16"))
		out := env.out.String()
		assert.Contains(t, out, "[KJV] John 3:16\n    For God so loved the world\n")
		assert.Contains(t, out, "1 verse(s) sharing 2 or more:")
		assert.Contains(t, out, "John 3:17  [G2316, G5207]\n    For God sent not his Son into the world to condemn the world\n")

		require.NoError(t, env.run(t, "xref", "verse", "John 3:16", "--min-shared", "3"))
		assert.Contains(t, env.out.String(), "No verses share 3 or more Strong's numbers.")
	})

	t.Run("xref strongs", func(t *testing.T) {
		require.NoError(t, env.run(t, "xref", "strongs", "2316", "G5207", "-t", "web"))
		out := env.out.String()
		assert.Contains(t, out, "G2316 θεὸς: God\n")
		assert.Contains(t, out, "2 verse(s) containing all:")
		assert.Contains(t, out, "John 3:17  [G2316, G5207]\n    (missing in this translation)\n")

		assert.ErrorIs(t, env.run(t, "xref", "strongs", "G4100", "G2316"), ErrNoResults)
	})

	t.Run("xref network", func(t *testing.T) {
		require.NoError(t, env.run(t, "xref", "network", "G2316"))
		out := env.out.String()
		assert.Contains(t, out, "2 verse(s):")
		assert.Contains(t, out, "Co-occurring numbers:\n  G5207   x2  Son\n")

		assert.ErrorIs(t, env.run(t, "xref", "network", "G9999"), ErrNoResults)
	})
}
