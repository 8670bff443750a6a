// Package reference parses human verse references such as "John 3:16-18".
package reference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var ErrMalformedReference = errors.New("malformed reference")

// Reference is a parsed, unresolved locator. Book is the token as typed.
type Reference struct {
	Book       string
	Chapter    int
	VerseStart int
	VerseEnd   int
}

// tail is the "chapter:verse" or "chapter:start-end" part after the book.
type tail struct {
	Chapter int  `@Int ":"`
	Start   int  `@Int`
	End     *int `( "-" @Int )?`
}

var tailLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `\d+`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var tailParser = participle.MustBuild[tail](
	participle.Lexer(tailLexer),
	participle.Elide("Whitespace"),
)

// Parse splits s at its rightmost space into a book token and a
// chapter:verse tail. Multi-word books ("1 Samuel", "Song of Solomon")
// work as long as the tail has no spaces. No canon book name contains a
// colon, so the split is unambiguous.
//
// Parse never checks that the reference exists: "Genesis 999:999" and
// out-of-order ranges such as "John 3:5-3" are well formed.
func Parse(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrMalformedReference)
	}

	idx := strings.LastIndex(s, " ")
	if idx < 0 {
		return Reference{}, fmt.Errorf("%w: no space between book and chapter in %q", ErrMalformedReference, s)
	}

	book := strings.TrimSpace(s[:idx])
	cv := strings.TrimSpace(s[idx+1:])
	if book == "" {
		return Reference{}, fmt.Errorf("%w: missing book in %q", ErrMalformedReference, s)
	}
	if !strings.Contains(cv, ":") {
		return Reference{}, fmt.Errorf("%w: missing ':' in %q", ErrMalformedReference, s)
	}

	t, err := tailParser.ParseString("", cv)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %q: %v", ErrMalformedReference, s, err)
	}

	ref := Reference{
		Book:       book,
		Chapter:    t.Chapter,
		VerseStart: t.Start,
		VerseEnd:   t.Start,
	}
	if t.End != nil {
		ref.VerseEnd = *t.End
	}
	return ref, nil
}

// Single reports whether the reference addresses exactly one verse.
// "John 3:16" and "John 3:16-16" are both single.
func (r Reference) Single() bool {
	return r.VerseStart == r.VerseEnd
}

// Empty reports whether the range is out of order and so matches nothing.
func (r Reference) Empty() bool {
	return r.VerseEnd < r.VerseStart
}

func (r Reference) String() string {
	if r.Single() {
		return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.VerseStart)
	}
	return fmt.Sprintf("%s %d:%d-%d", r.Book, r.Chapter, r.VerseStart, r.VerseEnd)
}

// Normalized returns the stored key of the first verse, e.g. "GEN.1.1".
func (r Reference) Normalized(code string) string {
	return NormalizedRef(code, r.Chapter, r.VerseStart)
}

// NormalizedRef builds the CODE.C.V key stored in verses_normalized.
func NormalizedRef(code string, chapter, verse int) string {
	return fmt.Sprintf("%s.%d.%d", code, chapter, verse)
}
