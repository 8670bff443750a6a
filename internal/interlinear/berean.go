// Package interlinear imports Greek interlinear tokens from the Berean
// tables export and answers cross-reference queries on shared Strong's
// numbers.
package interlinear

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/reference"
)

// Column positions of the Berean tables export. The file has no header
// row; its first line is a copyright notice.
const (
	colVerse       = 7
	colGreek       = 12
	colTranslit    = 13
	colGlossFirst  = 14 // BIB, BLB and BSB glosses; the first non-empty wins
	colGlossLast   = 16
	colParsing     = 17
	colParsingFull = 18
	colStrongs     = 19
	colDefinition  = 20
	minColumns     = 20
)

// Parsed is the content of one tables export.
type Parsed struct {
	Words       []entities.InterlinearWord
	Definitions []entities.StrongsEntry // one per Strong's number, first definition wins
	Skipped     []string
}

// GreekNumber prefixes a bare Berean Strong's number with G.
func GreekNumber(n string) string {
	n = strings.TrimSpace(n)
	if n == "" {
		return ""
	}
	if _, err := strconv.Atoi(n); err != nil {
		return ""
	}
	n = strings.TrimLeft(n, "0")
	if n == "" {
		return ""
	}
	return "G" + n
}

// ParseBereanTables reads the positional Berean tables CSV. Rows that are
// too short or carry no "Book|C:V" reference are continuation rows and are
// ignored silently. Word order restarts at 1 for every verse and counts
// rows whose Greek cell is empty, as the export numbers them.
func ParseBereanTables(r io.Reader, resolver *canon.Resolver) (Parsed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Parsed{}, nil
		}
		return Parsed{}, fmt.Errorf("failed to read copyright row: %w", err)
	}

	var out Parsed
	seen := make(map[string]bool)
	current := ""
	order := 0
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}
		if len(record) < minColumns {
			continue
		}

		rawRef := strings.TrimSpace(record[colVerse])
		if !strings.Contains(rawRef, "|") {
			continue
		}
		rawRef = strings.ReplaceAll(rawRef, "|", " ")
		if rawRef != current {
			current = rawRef
			order = 0
		}
		order++

		greek := cell(record, colGreek)
		if greek == "" {
			continue
		}

		parsed, err := reference.Parse(rawRef)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}
		book, err := resolver.Resolve(parsed.Book)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("Line %d: unknown book %q", lineNum, parsed.Book))
			continue
		}

		var gloss string
		for i := colGlossFirst; i <= colGlossLast; i++ {
			if gloss = cell(record, i); gloss != "" {
				break
			}
		}

		number := GreekNumber(cell(record, colStrongs))
		out.Words = append(out.Words, entities.InterlinearWord{
			NormalizedRef: parsed.Normalized(book.Code),
			WordOrder:     order,
			BookNum:       book.BookNum,
			Chapter:       parsed.Chapter,
			VerseNum:      parsed.VerseStart,
			Greek:         greek,
			Translit:      cell(record, colTranslit),
			StrongsNumber: number,
			Parsing:       cell(record, colParsing),
			ParsingFull:   cell(record, colParsingFull),
			Gloss:         gloss,
		})

		if def := cell(record, colDefinition); number != "" && def != "" && !seen[number] {
			seen[number] = true
			out.Definitions = append(out.Definitions, entities.StrongsEntry{
				StrongsNumber: number,
				Language:      "el",
				Lemma:         greek,
				Gloss:         def,
			})
		}
	}
	return out, nil
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
