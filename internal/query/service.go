// Package query composes the reference parser, the book resolver and the
// verse store into the search, passage, context and parallel lookups.
//
// Lookups are best effort: malformed references, unknown books and storage
// failures are logged as warnings and produce empty results, never errors.
package query

import (
	"context"
	"strings"

	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/reference"
	"github.com/mrlokans/compendium/internal/services"
)

// MissingTranslationPlaceholder stands in for a verse a translation lacks.
const MissingTranslationPlaceholder = "(missing in this translation)"

// ParallelRow is one verse across several translations.
type ParallelRow struct {
	BookCode string
	Chapter  int
	Verse    int
	Texts    map[string]string // translation code -> text
}

// TextFor returns the verse text of a translation or the placeholder.
func (r ParallelRow) TextFor(code string) string {
	if text, ok := r.Texts[strings.ToUpper(code)]; ok {
		return text
	}
	return MissingTranslationPlaceholder
}

type Service struct {
	store    services.VerseReader
	resolver *canon.Resolver
}

func NewService(store services.VerseReader, resolver *canon.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

// Search finds verses whose text contains q. An empty translation searches
// every translation. A limit of zero or less means no limit; callers that
// want a bounded result, like the CLI, pass a positive default.
func (s *Service) Search(ctx context.Context, q string, limit int, translation string) []entities.Verse {
	q = strings.TrimSpace(q)
	if q == "" {
		logging.Warn("empty search query, returning no results")
		return nil
	}
	translation = strings.ToUpper(strings.TrimSpace(translation))

	logging.Debug("search", "query", q, "limit", limit, "translation", translation)
	rows, err := s.store.Search(ctx, q, translation, limit)
	if err != nil {
		logging.Warn("database error during search", database.ErrorAttrs(err)...)
		return nil
	}
	return rows
}

// Passage fetches the verses addressed by ref in one translation.
func (s *Service) Passage(ctx context.Context, ref, translation string) []entities.Verse {
	parsed, book, ok := s.resolve(ref)
	if !ok {
		return nil
	}

	return s.fetch(ctx, verses.RangeQuery{
		Translations: []string{strings.ToUpper(translation)},
		BookNum:      book.BookNum,
		Chapter:      parsed.Chapter,
		VerseStart:   parsed.VerseStart,
		VerseEnd:     parsed.VerseEnd,
	})
}

// Context fetches a window around the first verse of ref. The window starts
// no earlier than verse 1; negative widths count as zero.
func (s *Service) Context(ctx context.Context, ref, translation string, before, after int) []entities.Verse {
	parsed, book, ok := s.resolve(ref)
	if !ok {
		return nil
	}

	start, end := Window(parsed.VerseStart, before, after)
	return s.fetch(ctx, verses.RangeQuery{
		Translations: []string{strings.ToUpper(translation)},
		BookNum:      book.BookNum,
		Chapter:      parsed.Chapter,
		VerseStart:   start,
		VerseEnd:     end,
	})
}

// Parallel fetches ref across translations in one query and regroups the
// rows per verse. Only verses that at least one translation has are
// returned: a verse inside the range that no requested translation stores
// is left out rather than emitted as a row of placeholders. Within a
// returned row, translations lacking the verse read as
// MissingTranslationPlaceholder.
func (s *Service) Parallel(ctx context.Context, ref string, translations []string) []ParallelRow {
	codes := NormalizeCodes(translations)
	if len(codes) == 0 {
		logging.Warn("no translations given for parallel comparison")
		return nil
	}

	parsed, book, ok := s.resolve(ref)
	if !ok {
		return nil
	}

	rows := s.fetch(ctx, verses.RangeQuery{
		Translations: codes,
		BookNum:      book.BookNum,
		Chapter:      parsed.Chapter,
		VerseStart:   parsed.VerseStart,
		VerseEnd:     parsed.VerseEnd,
	})
	return groupParallel(book.Code, parsed.Chapter, rows)
}

func (s *Service) resolve(ref string) (reference.Reference, canon.Entry, bool) {
	parsed, err := reference.Parse(ref)
	if err != nil {
		logging.Warn("could not parse reference", "ref", ref, "error", err)
		return reference.Reference{}, canon.Entry{}, false
	}

	book, err := s.resolver.Resolve(parsed.Book)
	if err != nil {
		logging.Warn("could not resolve book name", "book", parsed.Book, "ref", ref)
		return reference.Reference{}, canon.Entry{}, false
	}
	return parsed, book, true
}

func (s *Service) fetch(ctx context.Context, q verses.RangeQuery) []entities.Verse {
	logging.Debug("range fetch",
		"translations", strings.Join(q.Translations, ","),
		"book", q.BookNum, "chapter", q.Chapter,
		"start", q.VerseStart, "end", q.VerseEnd)

	rows, err := s.store.Range(ctx, q)
	if err != nil {
		logging.Warn("database error during verse fetch", database.ErrorAttrs(err)...)
		return nil
	}
	return rows
}

// Window returns the inclusive verse range around center, clamped to >= 1.
func Window(center, before, after int) (int, int) {
	if before < 0 {
		before = 0
	}
	if after < 0 {
		after = 0
	}
	start := center - before
	if start < 1 {
		start = 1
	}
	return start, center + after
}

// NormalizeCodes upper-cases and trims translation codes, dropping blanks
// and duplicates while keeping the caller's order.
func NormalizeCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// groupParallel relies on rows being ordered by verse.
func groupParallel(bookCode string, chapter int, rows []entities.Verse) []ParallelRow {
	var out []ParallelRow
	for _, v := range rows {
		if len(out) == 0 || out[len(out)-1].Verse != v.VerseNum {
			out = append(out, ParallelRow{
				BookCode: bookCode,
				Chapter:  chapter,
				Verse:    v.VerseNum,
				Texts:    make(map[string]string),
			})
		}
		out[len(out)-1].Texts[v.TranslationCode] = v.Text
	}
	return out
}
