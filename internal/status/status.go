// Package status gathers a health summary of the compendium database:
// policy, per-translation verse counts, the translation registry, study
// annotation totals and the latest import sessions. Missing tables and query failures degrade to
// empty sections with a logged warning.
package status

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/database/annotations"
	"github.com/mrlokans/compendium/internal/database/imports"
	"github.com/mrlokans/compendium/internal/database/policies"
	"github.com/mrlokans/compendium/internal/database/strongs"
	"github.com/mrlokans/compendium/internal/database/translations"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/policy"
)

const DefaultRecentSessions = 5

type PolicyStatus struct {
	Version       string `json:"version"`
	ShortChecksum string `json:"short_checksum"`
}

type Report struct {
	DatabasePath   string                      `json:"database_path"`
	Policy         *PolicyStatus               `json:"policy,omitempty"`
	VerseCounts    []entities.TranslationCount `json:"verse_counts"`
	Translations   []entities.Translation      `json:"translations"`
	StrongsEntries int64                       `json:"strongs_entries"`
	Annotations    entities.AnnotationCounts   `json:"annotations"`
	RecentImports  []entities.ImportSession    `json:"recent_imports"`
	Incomplete     []entities.ImportSession    `json:"incomplete_imports"`
}

type Service struct {
	path         string
	verses       *verses.Repository
	translations *translations.Repository
	policies     *policies.Repository
	sessions     *imports.Repository
	strongs      *strongs.Repository
	annotations  *annotations.Repository
}

func NewService(db *gorm.DB, path string) *Service {
	return &Service{
		path:         path,
		verses:       verses.NewRepository(db),
		translations: translations.NewRepository(db),
		policies:     policies.NewRepository(db),
		sessions:     imports.NewRepository(db),
		strongs:      strongs.NewRepository(db),
		annotations:  annotations.NewRepository(db),
	}
}

// Collect never fails; each section that cannot be read is left empty.
func (s *Service) Collect(ctx context.Context, recent int) Report {
	if recent <= 0 {
		recent = DefaultRecentSessions
	}
	r := Report{DatabasePath: s.path}

	if p, err := s.policies.Current(ctx); err != nil {
		warn("could not read hermeneutical policy", err)
	} else if p != nil {
		r.Policy = &PolicyStatus{Version: p.Version, ShortChecksum: policy.ShortChecksum(p.Checksum)}
	}

	var err error
	if r.VerseCounts, err = s.verses.CountByTranslation(ctx); err != nil {
		warn("could not count verses", err)
	}
	if r.Translations, err = s.translations.List(ctx); err != nil {
		warn("could not list translations", err)
	}
	if r.StrongsEntries, err = s.strongs.Count(ctx); err != nil {
		warn("could not count lexicon entries", err)
	}
	if r.Annotations, err = s.annotations.Counts(ctx); err != nil {
		warn("could not count study annotations", err)
	}
	if r.RecentImports, err = s.sessions.Recent(ctx, recent); err != nil {
		warn("could not list import sessions", err)
	}
	if r.Incomplete, err = s.sessions.Incomplete(ctx); err != nil {
		warn("could not list incomplete imports", err)
	}
	return r
}

func warn(msg string, err error) {
	logging.Warn(msg, database.ErrorAttrs(err)...)
}

// Print writes the human readable status summary.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Database: %s\n", r.DatabasePath)

	if r.Policy == nil {
		fmt.Fprintln(w, "WARNING: hermeneutical policy not initialized (run init-policy)")
	} else {
		fmt.Fprintf(w, "Policy: version=%s, checksum=%s...\n", r.Policy.Version, r.Policy.ShortChecksum)
	}

	fmt.Fprintln(w)
	if len(r.VerseCounts) == 0 {
		fmt.Fprintln(w, "WARNING: no verse data found")
	} else {
		fmt.Fprintln(w, "Verse counts per translation:")
		for _, c := range r.VerseCounts {
			fmt.Fprintf(w, "  - %s: %d verse(s)\n", c.TranslationCode, c.VerseCount)
		}
	}

	fmt.Fprintln(w)
	if len(r.Translations) == 0 {
		fmt.Fprintln(w, "WARNING: no translations registered")
	} else {
		fmt.Fprintln(w, "Translations registry:")
		for _, t := range r.Translations {
			fmt.Fprintf(w, "  - %s [%s]: %s\n", t.Code, t.Language, t.Name)
		}
	}

	fmt.Fprintf(w, "\nStrong's lexicon entries: %d\n", r.StrongsEntries)
	a := r.Annotations
	fmt.Fprintf(w, "Study annotations: %d core passage(s), %d verse note(s), %d Greek margin(s)\n",
		a.CorePassages, a.VerseNotes, a.GreekMargins)
	fmt.Fprintf(w, "Interlinear words: %d\n", a.InterlinearWords)

	if len(r.RecentImports) > 0 {
		fmt.Fprintln(w, "\nRecent imports:")
		for _, s := range r.RecentImports {
			fmt.Fprintf(w, "  - %s %s %s %s (inserted %d, skipped %d)\n",
				s.StartedAt.Format("2006-01-02 15:04:05"), s.Kind, sessionLabel(s), s.Status,
				s.RowsInserted, s.RowsSkipped)
		}
	}

	if len(r.Incomplete) > 0 {
		fmt.Fprintf(w, "\nWARNING: %d import(s) did not complete:\n", len(r.Incomplete))
		for _, s := range r.Incomplete {
			fmt.Fprintf(w, "  - %s %s (%s)\n", s.ID, sessionLabel(s), s.Status)
		}
	}
}

func sessionLabel(s entities.ImportSession) string {
	if s.TranslationCode != "" {
		return s.TranslationCode
	}
	return strings.TrimSpace(s.SourcePath)
}
