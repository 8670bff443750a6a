// Package audit writes one JSON record per import run next to the database.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mrlokans/compendium/internal/logging"
)

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveJSON saves data as indented JSON under a fresh UUID file name and
// returns that name.
func (a *Auditor) SaveJSON(data any) (string, error) {
	return a.save(uuid.NewString(), data)
}

// SaveRecord saves data under <id>.json, replacing an earlier record with the
// same id. Import sessions use their session id.
func (a *Auditor) SaveRecord(id string, data any) (string, error) {
	if id == "" {
		return "", fmt.Errorf("audit record id is empty")
	}
	return a.save(id, data)
}

func (a *Auditor) save(id string, data any) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := id + ".json"
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	logging.Debug("saved audit file", "path", path)
	return filename, nil
}

func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0o755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
