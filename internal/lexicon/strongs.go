// Package lexicon imports and looks up Strong's lexicon entries.
package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/compendium/internal/entities"
)

var (
	ErrMissingColumns = errors.New("strongs CSV must have at least 'strongs_number' and 'lemma' columns")
	ErrNotFound       = errors.New("strongs entry not found")
)

// ParseStrongsCSV parses a lexicon CSV with required strongs_number and
// lemma columns and optional language, gloss and extra columns. Rows
// without a language use defaultLanguage. Numbers are upper-cased.
// Returns the entries, per-line skip reasons and a fatal header error.
func ParseStrongsCSV(r io.Reader, defaultLanguage string) ([]entities.StrongsEntry, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrMissingColumns
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"strongs_number", "lemma"} {
		if _, ok := headerIndex[required]; !ok {
			return nil, nil, ErrMissingColumns
		}
	}

	var entries []entities.StrongsEntry
	var skipped []string
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		entry := entities.StrongsEntry{
			StrongsNumber: strings.ToUpper(getCSVValue(record, headerIndex, "strongs_number")),
			Lemma:         getCSVValue(record, headerIndex, "lemma"),
			Language:      getCSVValue(record, headerIndex, "language"),
			Gloss:         getCSVValue(record, headerIndex, "gloss"),
			Extra:         getCSVValue(record, headerIndex, "extra"),
		}
		if entry.Language == "" {
			entry.Language = strings.TrimSpace(defaultLanguage)
		}

		if entry.StrongsNumber == "" || entry.Lemma == "" || entry.Language == "" {
			skipped = append(skipped, fmt.Sprintf("Line %d: skipped - missing strongs_number, lemma or language", lineNum))
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

func getCSVValue(record []string, headerIndex map[string]int, header string) string {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
