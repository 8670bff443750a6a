package importers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxPlaintextLine = 1024 * 1024

// PlaintextConverter holds verses parsed from a "Book C:V text" file.
type PlaintextConverter struct {
	Rows   []RawVerse
	Source Source
}

func NewPlaintextConverter(rows []RawVerse, source Source) *PlaintextConverter {
	return &PlaintextConverter{Rows: rows, Source: source}
}

// Convert implements Converter interface.
func (c *PlaintextConverter) Convert() ([]RawVerse, Source) {
	return c.Rows, c.Source
}

// ParsePlaintext parses one verse per line:
//
//	Genesis 1:1 In the beginning God created the heaven and the earth.
//	1 John 4:8 He that loveth not knoweth not God; for God is love.
//
// The book is every token before the first chapter:verse token. Blank lines
// are ignored.
func ParsePlaintext(r io.Reader, maxRows int) ([]RawVerse, []string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxPlaintextLine)

	var rows []RawVerse
	var skipped []string
	lineNum := 0

	for scanner.Scan() {
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
		lineNum++

		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		row, reason := parsePlaintextLine(lineNum, fields)
		if reason != "" {
			skipped = append(skipped, fmt.Sprintf("Line %d: %s", lineNum, reason))
			continue
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read plaintext source: %w", err)
	}
	return rows, skipped, nil
}

func parsePlaintextLine(lineNum int, fields []string) (RawVerse, string) {
	cv := -1
	for i := 1; i < len(fields); i++ {
		if strings.Contains(fields[i], ":") {
			cv = i
			break
		}
	}
	if cv < 0 {
		return RawVerse{}, "missing chapter:verse"
	}

	chapter, verse, _ := strings.Cut(fields[cv], ":")
	book := strings.Join(fields[:cv], " ")
	text := strings.Join(fields[cv+1:], " ")
	return buildRow(lineNum, book, chapter, verse, text)
}
