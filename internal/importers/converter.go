package importers

import (
	"fmt"
	"path/filepath"
)

// RawVerse is one verse row from any source format. Chapter and verse have
// already been validated as positive integers; the book is still the raw
// token from the source.
type RawVerse struct {
	Line    int
	Book    string
	Chapter int
	Verse   int
	Text    string
}

// Source describes where a batch of raw verses came from.
type Source struct {
	Format   Format
	FilePath string
	Hash     string   // hex BLAKE3 of the file as stored on disk
	Skipped  []string // "Line N: reason" for rows the parser rejected
}

// Notes is the registry description of the source, e.g.
// "Imported from Excel file kjv.xlsx".
func (s Source) Notes() string {
	return fmt.Sprintf("Imported from %s file %s", s.Format.Label(), filepath.Base(s.FilePath))
}

// Converter hands parsed rows to the Pipeline.
//
// Implementations:
//   - CSVConverter (csv.go)
//   - XLSXConverter (xlsx.go)
//   - PlaintextConverter (plaintext.go)
type Converter interface {
	Convert() ([]RawVerse, Source)
}
