package importers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// headerCandidates lists the accepted spellings of each logical column
// after normalizeHeader.
var headerCandidates = []struct {
	column     string
	candidates []string
}{
	{"book", []string{"book", "bookname", "bk"}},
	{"chapter", []string{"chapter", "chap", "ch"}},
	{"verse", []string{"verse", "versenum", "vs", "v"}},
	{"text", []string{"text", "versetext", "content", "body"}},
}

type columnMap struct {
	book, chapter, verse, text int
}

// normalizeHeader lowercases and strips spaces, hyphens and underscores, so
// "Book Name", "book-name" and "BOOK_NAME" all become "bookname".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(h)
}

func detectColumns(header []string) (columnMap, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	found := make(map[string]int, len(headerCandidates))
	var missing []string
	for _, hc := range headerCandidates {
		idx := -1
		for i, h := range normalized {
			if contains(hc.candidates, h) {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = append(missing, hc.column)
			continue
		}
		found[hc.column] = idx
	}

	if len(missing) > 0 {
		return columnMap{}, fmt.Errorf("%w: could not detect %s (headers were %q)",
			ErrMissingColumns, strings.Join(missing, ", "), header)
	}
	return columnMap{
		book:    found["book"],
		chapter: found["chapter"],
		verse:   found["verse"],
		text:    found["text"],
	}, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// parseTable walks header + data records shared by the CSV and Excel
// formats. next returns io.EOF at the end; other errors skip one record.
func parseTable(next func() ([]string, error), isEOF func(error) bool, maxRows int) ([]RawVerse, []string, error) {
	header, err := next()
	if isEOF(err) {
		return nil, nil, ErrEmptySource
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := detectColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var rows []RawVerse
	var skipped []string
	lineNum := 1 // header

	for {
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
		lineNum++
		record, err := next()
		if isEOF(err) {
			break
		}
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}
		if isBlank(record) {
			continue
		}

		row, reason := buildRow(lineNum,
			cell(record, cols.book), cell(record, cols.chapter),
			cell(record, cols.verse), cell(record, cols.text))
		if reason != "" {
			skipped = append(skipped, fmt.Sprintf("Line %d: %s", lineNum, reason))
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// buildRow validates one record and returns a skip reason on failure.
func buildRow(line int, book, chapter, verse, text string) (RawVerse, string) {
	if book == "" || chapter == "" || verse == "" {
		return RawVerse{}, "missing book/chapter/verse"
	}
	if text == "" {
		return RawVerse{}, "empty verse text"
	}

	ch, chErr := parseNumber(chapter)
	vs, vsErr := parseNumber(verse)
	if chErr != nil || vsErr != nil {
		return RawVerse{}, fmt.Sprintf("non-integer chapter/verse (chapter=%q, verse=%q)", chapter, verse)
	}
	if ch < 1 || vs < 1 {
		return RawVerse{}, fmt.Sprintf("chapter/verse must be positive (chapter=%d, verse=%d)", ch, vs)
	}

	return RawVerse{Line: line, Book: book, Chapter: ch, Verse: vs, Text: text}, ""
}

// parseNumber accepts integers and integral floats such as the "3.0" that
// spreadsheets produce for numeric cells.
func parseNumber(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("not an integer: %s", s)
	}
	return int(f), nil
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
