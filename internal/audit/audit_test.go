package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "audit")
	auditor := NewAuditor(tempDir)

	t.Run("SaveJSON creates audit directory and saves file", func(t *testing.T) {
		testData := map[string]interface{}{
			"translation_code": "KJV",
			"rows_inserted":    42,
			"errors":           []string{"Line 3: empty verse text"},
		}

		filename, err := auditor.SaveJSON(testData)
		require.NoError(t, err)
		assert.Contains(t, filename, ".json")

		fileContent, err := os.ReadFile(filepath.Join(tempDir, filename))
		require.NoError(t, err)

		var savedData map[string]interface{}
		require.NoError(t, json.Unmarshal(fileContent, &savedData))

		assert.Equal(t, "KJV", savedData["translation_code"])
		assert.Equal(t, float64(42), savedData["rows_inserted"]) // JSON unmarshals numbers as float64
		assert.Equal(t, []interface{}{"Line 3: empty verse text"}, savedData["errors"])
	})

	t.Run("SaveJSON generates unique filenames", func(t *testing.T) {
		filename1, err := auditor.SaveJSON(map[string]string{"key": "value"})
		require.NoError(t, err)
		filename2, err := auditor.SaveJSON(map[string]string{"key": "value"})
		require.NoError(t, err)

		assert.NotEqual(t, filename1, filename2)
	})

	t.Run("SaveRecord uses the given id", func(t *testing.T) {
		filename, err := auditor.SaveRecord("session-1", map[string]int{"rows": 1})
		require.NoError(t, err)
		assert.Equal(t, "session-1.json", filename)

		filename, err = auditor.SaveRecord("session-1", map[string]int{"rows": 2})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(tempDir, filename))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"rows": 2`)

		_, err = auditor.SaveRecord("", nil)
		assert.Error(t, err)
	})
}
