package importers

import (
	"fmt"
	"strings"

	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/reference"
)

// Normalize resolves book tokens and builds stored verse rows for one
// translation. Rows whose book cannot be resolved are reported, not
// returned.
func Normalize(rows []RawVerse, resolver *canon.Resolver, translationCode string) ([]entities.Verse, []string) {
	code := strings.ToUpper(strings.TrimSpace(translationCode))
	out := make([]entities.Verse, 0, len(rows))
	var skipped []string

	for _, r := range rows {
		book, err := resolver.Resolve(r.Book)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("Line %d: could not resolve book %q", r.Line, r.Book))
			continue
		}

		text := strings.TrimSpace(r.Text)
		out = append(out, entities.Verse{
			TranslationCode: code,
			BookNum:         book.BookNum,
			BookCode:        book.Code,
			Chapter:         r.Chapter,
			VerseNum:        r.Verse,
			NormalizedRef:   reference.NormalizedRef(book.Code, r.Chapter, r.Verse),
			Text:            text,
			WordCount:       len(strings.Fields(text)),
		})
	}

	return out, skipped
}
