// Package canon holds the fixed book table used to resolve book tokens to
// canonical numbers.
package canon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mrlokans/compendium/internal/logging"
)

//go:embed canon.json
var defaultCanon []byte

// Testament is the closed set of testament markers a canon entry may carry.
type Testament string

const (
	OldTestament     Testament = "OT"
	NewTestament     Testament = "NT"
	UnknownTestament Testament = "Unknown"
)

// ParseTestament maps free-form canon values onto a Testament.
func ParseTestament(s string) Testament {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OT", "OLD":
		return OldTestament
	case "NT", "NEW":
		return NewTestament
	default:
		return UnknownTestament
	}
}

type Entry struct {
	BookNum   int       `json:"book_num"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Testament Testament `json:"testament"`
}

type rawEntry struct {
	BookNum   int    `json:"book_num"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Testament string `json:"testament"`
}

// Canon is an immutable book table. The zero value is an empty canon.
type Canon struct {
	byNum  map[int]Entry
	byCode map[string]Entry
}

// New builds a canon from entries. Duplicate numbers or codes are rejected.
func New(entries []Entry) (*Canon, error) {
	c := &Canon{
		byNum:  make(map[int]Entry, len(entries)),
		byCode: make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if e.BookNum <= 0 {
			return nil, fmt.Errorf("invalid book number %d for %q", e.BookNum, e.Code)
		}
		if e.Code == "" || e.Name == "" {
			return nil, fmt.Errorf("book %d is missing a code or name", e.BookNum)
		}
		if _, dup := c.byNum[e.BookNum]; dup {
			return nil, fmt.Errorf("duplicate book number %d", e.BookNum)
		}
		if _, dup := c.byCode[e.Code]; dup {
			return nil, fmt.Errorf("duplicate book code %q", e.Code)
		}
		c.byNum[e.BookNum] = e
		c.byCode[e.Code] = e
	}
	return c, nil
}

// Parse decodes the canon JSON list of {book_num, code, name, testament}.
func Parse(data []byte) (*Canon, error) {
	var raw []rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode canon: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, Entry{
			BookNum:   r.BookNum,
			Code:      strings.TrimSpace(r.Code),
			Name:      strings.TrimSpace(r.Name),
			Testament: ParseTestament(r.Testament),
		})
	}
	return New(entries)
}

// Load reads a canon file. An empty path loads the built-in 66-book canon.
func Load(path string) (*Canon, error) {
	if path == "" {
		return Parse(defaultCanon)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read canon %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOrEmpty behaves like Load but degrades to an empty canon with a
// warning. Every book lookup against the empty canon fails.
func LoadOrEmpty(path string) *Canon {
	c, err := Load(path)
	if err != nil {
		logging.Warn("canon unavailable, book lookups will return no results", "path", path, "error", err)
		return &Canon{}
	}
	return c
}

func (c *Canon) Len() int {
	return len(c.byNum)
}

// Entry returns the book with the given canonical number.
func (c *Canon) Entry(num int) (Entry, bool) {
	e, ok := c.byNum[num]
	return e, ok
}

// ByCode returns the book with the given code (exact match).
func (c *Canon) ByCode(code string) (Entry, bool) {
	e, ok := c.byCode[code]
	return e, ok
}

// NameFor returns the display name for a book code, falling back to the code.
func (c *Canon) NameFor(code string) string {
	if e, ok := c.byCode[code]; ok {
		return e.Name
	}
	return code
}

// Entries returns all books in canonical order.
func (c *Canon) Entries() []Entry {
	out := make([]Entry, 0, len(c.byNum))
	for _, e := range c.byNum {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookNum < out[j].BookNum })
	return out
}
