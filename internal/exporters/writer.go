package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/utils"
)

const reportExtension = ".txt"

// TextExporter writes reports under a base directory.
type TextExporter struct {
	ReportsDir string
}

func NewTextExporter(reportsDir string) *TextExporter {
	return &TextExporter{ReportsDir: reportsDir}
}

// OutputPath forces the .txt extension. An empty path falls back to a name
// derived from label inside ReportsDir; relative paths are kept as given.
func (e *TextExporter) OutputPath(path string, kind Kind, label string) string {
	if strings.TrimSpace(path) == "" {
		return filepath.Join(e.ReportsDir, DefaultFileName(kind, label))
	}
	return forceExtension(path)
}

// Export writes the report to path, creating parent directories.
func (e *TextExporter) Export(r Report, path, label string) (ExportResult, error) {
	out := e.OutputPath(path, r.Kind, label)

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportResult{}, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(out, []byte(r.Content), 0644); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write report: %w", err)
	}

	logging.Info("report written", "kind", string(r.Kind), "path", out)
	return ExportResult{Kind: r.Kind, Path: out, Bytes: len(r.Content)}, nil
}

// DefaultFileName builds "<kind>_<label>.txt" with label sanitised.
func DefaultFileName(kind Kind, label string) string {
	stem := string(kind)
	if strings.TrimSpace(label) != "" {
		stem += "_" + utils.SanitizeFilename(label)
	}
	return stem + reportExtension
}

func forceExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == reportExtension {
		return path
	}
	return strings.TrimSuffix(path, ext) + reportExtension
}
