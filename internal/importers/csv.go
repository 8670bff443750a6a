package importers

import (
	"encoding/csv"
	"errors"
	"io"
)

// CSVConverter holds verses parsed from a CSV export.
type CSVConverter struct {
	Rows   []RawVerse
	Source Source
}

func NewCSVConverter(rows []RawVerse, source Source) *CSVConverter {
	return &CSVConverter{Rows: rows, Source: source}
}

// Convert implements Converter interface.
func (c *CSVConverter) Convert() ([]RawVerse, Source) {
	return c.Rows, c.Source
}

// ParseBibleCSV parses a CSV file whose header names book, chapter, verse
// and text columns (any accepted spelling, any order).
// Returns the parsed rows, per-line skip reasons, and a fatal error when the
// header cannot be read or mapped.
func ParseBibleCSV(r io.Reader, maxRows int) ([]RawVerse, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	isEOF := func(err error) bool { return errors.Is(err, io.EOF) }
	return parseTable(reader.Read, isEOF, maxRows)
}
