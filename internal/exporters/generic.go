package exporters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/compendium/internal/entities"
)

// Kind names one of the report layouts.
type Kind string

const (
	KindBasic    Kind = "basic"
	KindPassage  Kind = "passage"
	KindParallel Kind = "parallel"
)

var ErrUnknownKind = errors.New("unknown report kind")

// Kinds lists every report kind in display order.
func Kinds() []Kind {
	return []Kind{KindBasic, KindPassage, KindParallel}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindBasic, KindPassage, KindParallel:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// PolicyInfo is the policy summary printed in report headers. A nil
// *PolicyInfo means the policy has not been initialised.
type PolicyInfo struct {
	Version  string
	Checksum string
}

// PolicyFromEntity returns nil for a nil or incomplete policy row.
func PolicyFromEntity(p *entities.HermeneuticalPolicy) *PolicyInfo {
	if p == nil || p.Version == "" || p.Checksum == "" {
		return nil
	}
	return &PolicyInfo{Version: p.Version, Checksum: p.Checksum}
}

// Report is a rendered report ready to be written.
type Report struct {
	Kind    Kind
	Title   string
	Content string
}

// ExportResult describes a written report.
type ExportResult struct {
	Kind  Kind   `json:"kind"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}
