// Package policy initialises and verifies the write-once hermeneutical
// rule policy.
package policy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/services"
)

const (
	Title   = "Study Bible Compendium - Hermeneutical Rule Policy"
	Version = "1.0.0"

	shortChecksumLen = 12
)

var (
	ErrNoPolicy  = errors.New("hermeneutical policy is not initialized")
	ErrEmptyText = errors.New("policy text is empty")
)

// Checksum is the hex SHA-256 of preface + "\n\n" + body.
func Checksum(preface, body string) string {
	sum := sha256.Sum256([]byte(preface + "\n\n" + body))
	return hex.EncodeToString(sum[:])
}

// ShortChecksum returns the first 12 characters used in reports and status.
func ShortChecksum(checksum string) string {
	if len(checksum) <= shortChecksumLen {
		return checksum
	}
	return checksum[:shortChecksumLen]
}

// NormalizeText converts CRLF and CR line endings to LF and trims.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

// ReadText reads and normalizes a policy source file.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read policy text: %w", err)
	}
	text := NormalizeText(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyText, path)
	}
	return text, nil
}

// InitResult reports whether Init created the row or found it locked.
type InitResult struct {
	Policy  *entities.HermeneuticalPolicy
	Created bool
}

// VerifyResult compares the stored checksum with one recomputed from the
// stored text.
type VerifyResult struct {
	Policy   *entities.HermeneuticalPolicy
	Computed string
}

func (r VerifyResult) OK() bool {
	return r.Policy != nil && r.Policy.Checksum == r.Computed
}

type Service struct {
	store services.PolicyStore
	now   func() time.Time
}

func NewService(store services.PolicyStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Init stores the policy once. When a row exists nothing changes and the
// existing row is returned.
func (s *Service) Init(ctx context.Context, prefacePath, bodyPath string) (InitResult, error) {
	existing, err := s.store.Current(ctx)
	if err != nil {
		return InitResult{}, fmt.Errorf("failed to read policy: %w", err)
	}
	if existing != nil {
		logging.Info("hermeneutical policy already present, no changes made (locked)",
			"version", existing.Version, "checksum", ShortChecksum(existing.Checksum))
		return InitResult{Policy: existing}, nil
	}

	preface, err := ReadText(prefacePath)
	if err != nil {
		return InitResult{}, err
	}
	body, err := ReadText(bodyPath)
	if err != nil {
		return InitResult{}, err
	}

	p := &entities.HermeneuticalPolicy{
		Version:      Version,
		Title:        Title,
		Preface:      preface,
		Body:         body,
		Checksum:     Checksum(preface, body),
		EffectiveUTC: s.now().UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z"),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return InitResult{}, fmt.Errorf("failed to store policy: %w", err)
	}

	logging.Info("hermeneutical policy initialized and locked", "version", p.Version, "checksum", p.Checksum)
	return InitResult{Policy: p, Created: true}, nil
}

// Verify recomputes the checksum of the stored text.
func (s *Service) Verify(ctx context.Context) (VerifyResult, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{Policy: p, Computed: Checksum(p.Preface, p.Body)}, nil
}

// MatchesFiles reports whether the policy source files still hash to the
// stored checksum.
func (s *Service) MatchesFiles(ctx context.Context, prefacePath, bodyPath string) (bool, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	preface, err := ReadText(prefacePath)
	if err != nil {
		return false, err
	}
	body, err := ReadText(bodyPath)
	if err != nil {
		return false, err
	}
	return Checksum(preface, body) == p.Checksum, nil
}

// Current returns the stored policy or ErrNoPolicy.
func (s *Service) Current(ctx context.Context) (*entities.HermeneuticalPolicy, error) {
	p, err := s.store.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	if p == nil {
		return nil, ErrNoPolicy
	}
	return p, nil
}
