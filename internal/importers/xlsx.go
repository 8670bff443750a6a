package importers

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXConverter holds verses parsed from an Excel workbook.
type XLSXConverter struct {
	Rows   []RawVerse
	Source Source
}

func NewXLSXConverter(rows []RawVerse, source Source) *XLSXConverter {
	return &XLSXConverter{Rows: rows, Source: source}
}

// Convert implements Converter interface.
func (c *XLSXConverter) Convert() ([]RawVerse, Source) {
	return c.Rows, c.Source
}

// ParseBibleXLSX reads the named worksheet, or the active one when sheet is
// empty. The first row is the header, as in ParseBibleCSV. Line numbers in
// skip reasons are spreadsheet row numbers.
func ParseBibleXLSX(r io.Reader, sheet string, maxRows int) ([]RawVerse, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	defer rows.Close()

	next := func() ([]string, error) {
		if !rows.Next() {
			return nil, io.EOF
		}
		return rows.Columns()
	}
	isEOF := func(err error) bool { return errors.Is(err, io.EOF) }

	parsed, skipped, err := parseTable(next, isEOF, maxRows)
	if err != nil {
		return nil, nil, err
	}
	if err := rows.Error(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate worksheet %q: %w", sheet, err)
	}
	return parsed, skipped, nil
}
