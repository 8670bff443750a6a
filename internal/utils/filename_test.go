package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "verse reference",
			input:    "John 3:16",
			expected: "John_3_16",
		},
		{
			name:     "verse range keeps hyphen",
			input:    "John 3:16-18",
			expected: "John_3_16-18",
		},
		{
			name:     "multi word book",
			input:    "Song of Solomon 2:1",
			expected: "Song_of_Solomon_2_1",
		},
		{
			name:     "removes invalid characters",
			input:    `file<>"|?*name`,
			expected: "filename",
		},
		{
			name:     "path separators become underscores",
			input:    `a/b\c`,
			expected: "a_b_c",
		},
		{
			name:     "replaces newlines and tabs",
			input:    "file\nname\twith\rspaces",
			expected: "file_name_with_spaces",
		},
		{
			name:     "collapses runs",
			input:    "a   b :: c",
			expected: "a_b_c",
		},
		{
			name:     "removes hashtags",
			input:    "#tag",
			expected: "tag",
		},
		{
			name:     "replaces square brackets",
			input:    "title [draft]",
			expected: "title_(draft)",
		},
		{
			name:     "trims leading and trailing separators",
			input:    "  ..name..  ",
			expected: "name",
		},
		{
			name:     "empty falls back",
			input:    "",
			expected: "report",
		},
		{
			name:     "only invalid characters falls back",
			input:    "<>?*",
			expected: "report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_TruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 300)

	result := SanitizeFilename(long)

	assert.Len(t, result, maxFilenameLength)
}
