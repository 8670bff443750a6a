package utils

import (
	"regexp"
	"strings"
)

var (
	// Path separators and the verse colon become underscores
	separatorChars = regexp.MustCompile(`[:/\\]`)
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>"|?*#]`)
	// Whitespace runs become a single underscore
	whitespaceRuns = regexp.MustCompile(`\s+`)
	// Repeated underscores to collapse
	multipleUnderscores = regexp.MustCompile(`_+`)
)

const maxFilenameLength = 200

// SanitizeFilename turns a label such as "John 3:16-18" into a portable
// file name stem ("John_3_16-18").
func SanitizeFilename(filename string) string {
	filename = separatorChars.ReplaceAllString(filename, "_")
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = strings.ReplaceAll(filename, "[", "(")
	filename = strings.ReplaceAll(filename, "]", ")")

	filename = strings.TrimSpace(filename)
	filename = whitespaceRuns.ReplaceAllString(filename, "_")
	filename = multipleUnderscores.ReplaceAllString(filename, "_")
	filename = strings.Trim(filename, "_.")

	if len(filename) > maxFilenameLength {
		filename = strings.TrimRight(filename[:maxFilenameLength], "_.")
	}

	if filename == "" {
		filename = "report"
	}

	return filename
}
