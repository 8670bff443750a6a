package interlinear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"
	"gorm.io/gorm"

	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/database/imports"
	wordsdb "github.com/mrlokans/compendium/internal/database/interlinear"
	"github.com/mrlokans/compendium/internal/database/strongs"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/importers"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/query"
	"github.com/mrlokans/compendium/internal/reference"
)

const (
	// DefaultMinShared is the smallest overlap reported for a verse.
	DefaultMinShared = 2
	// DefaultNetworkVerses caps the verses listed by a network query.
	DefaultNetworkVerses = 10

	coOccurMin   = 2
	coOccurLimit = 10
)

// ImportResult summarises an interlinear import.
type ImportResult struct {
	SessionID         string
	Words             int
	DefinitionsParsed int
	DefinitionsAdded  int64
	Skipped           []string
}

// Xref is one verse found by a cross-reference query, with its text in the
// requested translation.
type Xref struct {
	Ref           string // "John 3:16"
	NormalizedRef string
	Shared        int
	Numbers       []string
	Text          string
}

// VerseXrefs is the result of a verse cross-reference query.
type VerseXrefs struct {
	Ref     string
	Words   []entities.InterlinearWord // tokens carrying a Strong's number
	Text    string
	Matches []Xref
}

// Network lists verses using one Strong's number and the numbers that
// appear alongside it.
type Network struct {
	Entry       *entities.StrongsEntry
	Verses      []Xref
	CoOccurring []Related
}

// Related is a co-occurring number with its lexicon gloss, if known.
type Related struct {
	StrongsNumber string
	Occurrences   int
	Gloss         string
}

type Service struct {
	words    *wordsdb.Repository
	lexicon  *strongs.Repository
	sessions *imports.Repository
	verses   *verses.Repository
	resolver *canon.Resolver
}

func NewService(db *gorm.DB, resolver *canon.Resolver) *Service {
	return &Service{
		words:    wordsdb.NewRepository(db),
		lexicon:  strongs.NewRepository(db),
		sessions: imports.NewRepository(db),
		verses:   verses.NewRepository(db),
		resolver: resolver,
	}
}

// ImportFile loads a Berean tables CSV (optionally .xz compressed), stores
// its tokens and adds lexicon entries for Strong's numbers the lexicon does
// not have yet. Existing lexicon entries are never overwritten.
func (s *Service) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read interlinear source: %w", err)
	}

	var r io.Reader = bytes.NewReader(data)
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return ImportResult{}, fmt.Errorf("failed to open xz stream: %w", err)
		}
		r = xr
	}

	parsed, err := ParseBereanTables(r, s.resolver)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{
		Words:             len(parsed.Words),
		DefinitionsParsed: len(parsed.Definitions),
		Skipped:           parsed.Skipped,
	}

	session := &entities.ImportSession{
		ID:           uuid.NewString(),
		Kind:         entities.ImportKindInterlinear,
		SourcePath:   path,
		SourceFormat: string(importers.FormatCSV),
		SourceHash:   importers.Fingerprint(data),
		RowsParsed:   len(parsed.Words) + len(parsed.Skipped),
		RowsSkipped:  len(parsed.Skipped),
	}
	if err := s.sessions.Start(ctx, session); err != nil {
		return res, fmt.Errorf("failed to record import session: %w", err)
	}
	res.SessionID = session.ID

	runErr := s.words.UpsertWords(ctx, parsed.Words)
	if runErr != nil {
		runErr = fmt.Errorf("failed to store interlinear words: %w", runErr)
	} else {
		session.RowsInserted = len(parsed.Words)
		res.DefinitionsAdded, runErr = s.lexicon.InsertMissing(ctx, parsed.Definitions)
		if runErr != nil {
			runErr = fmt.Errorf("failed to store strongs definitions: %w", runErr)
		}
	}
	if err := s.sessions.Finish(ctx, session, parsed.Skipped, runErr); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to finish import session: %w", err)
	}
	if runErr != nil {
		return res, runErr
	}

	logging.Info("interlinear import complete",
		"words", res.Words,
		"definitions_added", res.DefinitionsAdded,
		"skipped", len(res.Skipped))
	return res, nil
}

// Words returns the interlinear tokens of a single-verse reference, or nil
// with a warning when the reference does not resolve.
func (s *Service) Words(ctx context.Context, ref string) []entities.InterlinearWord {
	key, ok := s.normalize(ref)
	if !ok {
		return nil
	}
	rows, err := s.words.Words(ctx, key)
	if err != nil {
		logging.Warn("database error while reading interlinear words", database.ErrorAttrs(err)...)
		return nil
	}
	return rows
}

// ForVerse finds verses sharing at least minShared Strong's numbers with
// ref. The boolean is false when ref does not resolve or has no tokens.
func (s *Service) ForVerse(ctx context.Context, ref, translation string, minShared, limit int) (VerseXrefs, bool) {
	key, ok := s.normalize(ref)
	if !ok {
		return VerseXrefs{}, false
	}

	words, err := s.words.Words(ctx, key)
	if err != nil {
		logging.Warn("database error while reading interlinear words", database.ErrorAttrs(err)...)
		return VerseXrefs{}, false
	}
	out := VerseXrefs{Ref: ref}
	seen := make(map[string]bool)
	for _, w := range words {
		if w.StrongsNumber == "" || seen[w.StrongsNumber] {
			continue
		}
		seen[w.StrongsNumber] = true
		out.Words = append(out.Words, w)
	}
	if len(out.Words) == 0 {
		logging.Warn("no Strong's numbers found for verse", "ref", ref)
		return VerseXrefs{}, false
	}

	matches, err := s.words.SharedWith(ctx, key, minShared, limit)
	if err != nil {
		logging.Warn("database error during cross-reference search", database.ErrorAttrs(err)...)
		return VerseXrefs{}, false
	}
	out.Matches = s.withText(ctx, translation, matches)

	if texts, err := s.verses.TextByRefs(ctx, translation, []string{key}); err == nil {
		out.Text = textOrPlaceholder(texts, key)
	}
	return out, true
}

// ContainingAll lists verses whose tokens include every given number.
func (s *Service) ContainingAll(ctx context.Context, numbers []string, translation string, limit int) []Xref {
	normalized := NormalizeNumbers(numbers)
	if len(normalized) == 0 {
		logging.Warn("no Strong's numbers given")
		return nil
	}
	matches, err := s.words.ContainingAll(ctx, normalized, limit)
	if err != nil {
		logging.Warn("database error during cross-reference search", database.ErrorAttrs(err)...)
		return nil
	}
	return s.withText(ctx, translation, matches)
}

// Network lists up to maxVerses verses using number and the numbers that
// appear in at least two of them.
func (s *Service) Network(ctx context.Context, number, translation string, maxVerses int) (Network, bool) {
	normalized := NormalizeNumbers([]string{number})
	if len(normalized) == 0 {
		logging.Warn("invalid Strong's number", "number", number)
		return Network{}, false
	}
	number = normalized[0]

	occ, err := s.words.Occurrences(ctx, number, maxVerses)
	if err != nil {
		logging.Warn("database error during network search", database.ErrorAttrs(err)...)
		return Network{}, false
	}
	if len(occ) == 0 {
		logging.Warn("no verses found for Strong's number", "number", number)
		return Network{}, false
	}

	net := Network{Entry: s.lookup(ctx, number), Verses: s.withText(ctx, translation, occ)}
	if len(occ) < 2 {
		return net, true
	}

	refs := make([]string, len(occ))
	for i, m := range occ {
		refs[i] = m.NormalizedRef
	}
	related, err := s.words.CoOccurring(ctx, refs, number, coOccurMin, coOccurLimit)
	if err != nil {
		logging.Warn("database error during network search", database.ErrorAttrs(err)...)
		return net, true
	}
	for _, r := range related {
		rel := Related{StrongsNumber: r.StrongsNumber, Occurrences: r.Occurrences}
		if e := s.lookup(ctx, r.StrongsNumber); e != nil {
			rel.Gloss = e.Gloss
		}
		net.CoOccurring = append(net.CoOccurring, rel)
	}
	return net, true
}

// Definitions returns the lexicon entries of numbers, skipping unknown ones.
func (s *Service) Definitions(ctx context.Context, numbers []string) []entities.StrongsEntry {
	var out []entities.StrongsEntry
	for _, n := range NormalizeNumbers(numbers) {
		if e := s.lookup(ctx, n); e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// Count returns the number of stored tokens, zero on error.
func (s *Service) Count(ctx context.Context) int64 {
	n, err := s.words.Count(ctx)
	if err != nil {
		logging.Warn("could not count interlinear words", database.ErrorAttrs(err)...)
		return 0
	}
	return n
}

// NormalizeNumbers upper-cases numbers, reads bare digits as Greek and
// drops blanks and duplicates.
func NormalizeNumbers(numbers []string) []string {
	seen := make(map[string]bool, len(numbers))
	var out []string
	for _, n := range numbers {
		n = strings.ToUpper(strings.TrimSpace(n))
		if g := GreekNumber(n); g != "" {
			n = g
		}
		if len(n) < 2 || seen[n] {
			continue
		}
		if n[0] != 'G' && n[0] != 'H' {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func (s *Service) normalize(ref string) (string, bool) {
	parsed, err := reference.Parse(ref)
	if err != nil {
		logging.Warn("could not parse reference", "ref", ref, "error", err)
		return "", false
	}
	book, err := s.resolver.Resolve(parsed.Book)
	if err != nil {
		logging.Warn("could not resolve book name", "book", parsed.Book, "ref", ref)
		return "", false
	}
	return parsed.Normalized(book.Code), true
}

func (s *Service) lookup(ctx context.Context, number string) *entities.StrongsEntry {
	e, err := s.lexicon.Get(ctx, number)
	if err != nil {
		logging.Warn("database error during lexicon lookup", database.ErrorAttrs(err)...)
		return nil
	}
	return e
}

func (s *Service) withText(ctx context.Context, translation string, matches []wordsdb.VerseMatch) []Xref {
	refs := make([]string, len(matches))
	for i, m := range matches {
		refs[i] = m.NormalizedRef
	}
	texts, err := s.verses.TextByRefs(ctx, translation, refs)
	if err != nil {
		logging.Warn("database error while reading verse text", database.ErrorAttrs(err)...)
		texts = nil
	}

	out := make([]Xref, 0, len(matches))
	for _, m := range matches {
		out = append(out, Xref{
			Ref:           s.label(m),
			NormalizedRef: m.NormalizedRef,
			Shared:        m.Shared,
			Numbers:       m.Numbers,
			Text:          textOrPlaceholder(texts, m.NormalizedRef),
		})
	}
	return out
}

func (s *Service) label(m wordsdb.VerseMatch) string {
	name := s.resolver.Canon().NameFor(bookCode(m.NormalizedRef))
	return fmt.Sprintf("%s %d:%d", name, m.Chapter, m.Verse)
}

func bookCode(normalizedRef string) string {
	code, _, _ := strings.Cut(normalizedRef, ".")
	return code
}

func textOrPlaceholder(texts map[string]string, key string) string {
	if t, ok := texts[key]; ok {
		return t
	}
	return query.MissingTranslationPlaceholder
}
