package importers

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Format is the closed set of supported source layouts.
type Format string

const (
	FormatCSV       Format = "csv"
	FormatXLSX      Format = "xlsx"
	FormatPlaintext Format = "plaintext"
)

// Label is the human name used in translation source notes.
func (f Format) Label() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatXLSX:
		return "Excel"
	case FormatPlaintext:
		return "plaintext"
	default:
		return string(f)
	}
}

// ParseFormat maps a user supplied format name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "xlsm", "excel":
		return FormatXLSX, nil
	case "txt", "text", "plaintext":
		return FormatPlaintext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// DetectFormat picks the format from the file extension. A trailing .xz is
// stripped first and reported as compressed.
func DetectFormat(path string) (Format, bool, error) {
	name := strings.ToLower(filepath.Base(path))
	compressed := strings.HasSuffix(name, ".xz")
	name = strings.TrimSuffix(name, ".xz")

	switch filepath.Ext(name) {
	case ".csv":
		return FormatCSV, compressed, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, compressed, nil
	case ".txt":
		return FormatPlaintext, compressed, nil
	default:
		return "", compressed, fmt.Errorf("%w: %s (expected .csv, .xlsx, .xlsm or .txt, optionally .xz)", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// LoadOptions controls how a source file is read.
type LoadOptions struct {
	Format  Format // Overrides extension detection when set
	Sheet   string // Excel worksheet; empty means the active sheet
	MaxRows int    // Stop after this many usable rows; 0 means no limit
}

// Load reads, fingerprints and parses a source file into a Converter.
func Load(path string, opts LoadOptions) (Converter, error) {
	format, compressed, err := DetectFormat(path)
	if opts.Format != "" {
		format, err = opts.Format, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	source := Source{
		Format:   format,
		FilePath: path,
		Hash:     Fingerprint(data),
	}

	var r io.Reader = bytes.NewReader(data)
	if compressed {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		r = xr
	}

	switch format {
	case FormatCSV:
		rows, skipped, err := ParseBibleCSV(r, opts.MaxRows)
		if err != nil {
			return nil, err
		}
		source.Skipped = skipped
		return NewCSVConverter(rows, source), nil
	case FormatXLSX:
		rows, skipped, err := ParseBibleXLSX(r, opts.Sheet, opts.MaxRows)
		if err != nil {
			return nil, err
		}
		source.Skipped = skipped
		return NewXLSXConverter(rows, source), nil
	case FormatPlaintext:
		rows, skipped, err := ParsePlaintext(r, opts.MaxRows)
		if err != nil {
			return nil, err
		}
		source.Skipped = skipped
		return NewPlaintextConverter(rows, source), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Fingerprint is the hex BLAKE3-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
