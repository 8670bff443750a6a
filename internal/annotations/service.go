package annotations

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/database"
	notesdb "github.com/mrlokans/compendium/internal/database/annotations"
	"github.com/mrlokans/compendium/internal/database/imports"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/logging"
	"github.com/mrlokans/compendium/internal/reference"
)

var (
	ErrNoSources      = errors.New("no annotation files given")
	ErrUnknownUnit    = errors.New("unknown core passage unit")
	ErrUnresolvedRefs = errors.New("annotation verse references not on the canonical spine")
	ErrBadVerseRef    = errors.New("bad annotation verse reference")
)

// Sources names the files of one install. Any of them may be empty, but
// not all.
type Sources struct {
	CorePassages string
	VerseNotes   string
	GreekMargins string
}

func (s Sources) paths() []string {
	var out []string
	for _, p := range []string{s.CorePassages, s.VerseNotes, s.GreekMargins} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InstallReport summarises an install. Parsed counts are filled even for
// dry runs.
type InstallReport struct {
	SessionID        string
	Units            []string
	PassagesUpserted int
	NotesParsed      int
	MarginsParsed    int
	NotesAdded       int64
	MarginsAdded     int64
	DryRun           bool
}

// VerseAnnotations groups the notes and margins of one canonical verse.
type VerseAnnotations struct {
	BookCode string
	Chapter  int
	Verse    int
	Notes    []entities.VerseNote
	Margins  []entities.GreekMargin
}

// Label renders the verse as "ROM 8:18".
func (v VerseAnnotations) Label() string {
	return fmt.Sprintf("%s %d:%d", v.BookCode, v.Chapter, v.Verse)
}

type Service struct {
	repo     *notesdb.Repository
	sessions *imports.Repository
	resolver *canon.Resolver
}

func NewService(db *gorm.DB, resolver *canon.Resolver) *Service {
	return &Service{
		repo:     notesdb.NewRepository(db),
		sessions: imports.NewRepository(db),
		resolver: resolver,
	}
}

// ResolveRef turns a single-verse reference such as "Romans 8:18" or
// "Romans|8:18" into its normalized key "ROM.8.18".
func ResolveRef(resolver *canon.Resolver, ref string) (string, error) {
	parsed, err := reference.Parse(strings.ReplaceAll(ref, "|", " "))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadVerseRef, err)
	}
	if !parsed.Single() {
		return "", fmt.Errorf("%w: %q must address one verse", ErrBadVerseRef, ref)
	}
	book, err := resolver.Resolve(parsed.Book)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadVerseRef, err)
	}
	return parsed.Normalized(book.Code), nil
}

// Install validates every file, resolves every verse reference through the
// canonical spine and then writes passages, notes and margins. Nothing is
// written when any file is invalid or any reference is unresolved.
func (s *Service) Install(ctx context.Context, src Sources, dryRun bool) (InstallReport, error) {
	report := InstallReport{DryRun: dryRun}
	if len(src.paths()) == 0 {
		return report, ErrNoSources
	}

	var passages []entities.CorePassage
	var units []Unit
	if src.CorePassages != "" {
		p, err := LoadPassages(src.CorePassages)
		if err != nil {
			return report, err
		}
		passages = p
	}
	if src.VerseNotes != "" {
		u, err := LoadNotes(src.VerseNotes)
		if err != nil {
			return report, err
		}
		units = append(units, u)
	}
	if src.GreekMargins != "" {
		u, err := LoadMargins(src.GreekMargins)
		if err != nil {
			return report, err
		}
		units = append(units, u)
	}

	for _, u := range units {
		report.NotesParsed += len(u.Notes)
		report.MarginsParsed += len(u.Margins)
		if !slices.Contains(report.Units, u.UnitID) {
			report.Units = append(report.Units, u.UnitID)
		}
	}

	if err := s.checkUnits(ctx, passages, report.Units); err != nil {
		return report, err
	}

	notes, margins, err := s.attach(ctx, units)
	if err != nil {
		return report, err
	}

	if dryRun {
		report.PassagesUpserted = len(passages)
		logging.Info("annotation dry run complete", "notes", report.NotesParsed, "margins", report.MarginsParsed)
		return report, nil
	}

	session := &entities.ImportSession{
		ID:           uuid.NewString(),
		Kind:         entities.ImportKindAnnotations,
		SourcePath:   strings.Join(src.paths(), ","),
		SourceFormat: "json",
		RowsParsed:   len(passages) + len(notes) + len(margins),
	}
	if err := s.sessions.Start(ctx, session); err != nil {
		return report, fmt.Errorf("failed to record import session: %w", err)
	}
	report.SessionID = session.ID

	runErr := s.repo.UpsertPassages(ctx, passages)
	if runErr == nil {
		report.PassagesUpserted = len(passages)
		var res notesdb.InstallResult
		res, runErr = s.repo.Install(ctx, notes, margins)
		report.NotesAdded = res.NotesAdded
		report.MarginsAdded = res.MarginsAdded
	}

	session.RowsInserted = report.PassagesUpserted + int(report.NotesAdded+report.MarginsAdded)
	session.RowsSkipped = len(notes) + len(margins) - int(report.NotesAdded+report.MarginsAdded)
	if err := s.sessions.Finish(ctx, session, nil, runErr); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to finish import session: %w", err)
	}
	if runErr != nil {
		return report, runErr
	}

	logging.Info("annotations installed",
		"units", strings.Join(report.Units, ","),
		"passages", report.PassagesUpserted,
		"notes_added", report.NotesAdded,
		"margins_added", report.MarginsAdded)
	return report, nil
}

// checkUnits requires every unit named by a notes or margins file to be in
// the passages being installed or already stored.
func (s *Service) checkUnits(ctx context.Context, passages []entities.CorePassage, unitIDs []string) error {
	known := make(map[string]bool, len(passages))
	for _, p := range passages {
		known[p.UnitID] = true
	}

	var missing []string
	for _, id := range unitIDs {
		if known[id] {
			continue
		}
		p, err := s.repo.Passage(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up core passage %s: %w", id, err)
		}
		if p == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (install its core passages file first)", ErrUnknownUnit, strings.Join(missing, ", "))
	}
	return nil
}

// attach resolves every pending verse reference to a canonical verse id.
func (s *Service) attach(ctx context.Context, units []Unit) ([]entities.VerseNote, []entities.GreekMargin, error) {
	normalized := make(map[string]string)
	var bad []string
	for _, u := range units {
		for _, ref := range u.refs() {
			if _, done := normalized[ref]; done {
				continue
			}
			key, err := ResolveRef(s.resolver, ref)
			if err != nil {
				bad = append(bad, strings.TrimPrefix(err.Error(), ErrBadVerseRef.Error()+": "))
				normalized[ref] = ""
				continue
			}
			normalized[ref] = key
		}
	}
	if len(bad) > 0 {
		return nil, nil, fmt.Errorf("%w:\n  - %s", ErrBadVerseRef, strings.Join(bad, "\n  - "))
	}

	keys := make([]string, 0, len(normalized))
	for _, key := range normalized {
		keys = append(keys, key)
	}
	ids, err := s.repo.CanonicalIDs(ctx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read canonical verses: %w", err)
	}

	var missing []string
	for ref, key := range normalized {
		if _, ok := ids[key]; !ok {
			missing = append(missing, fmt.Sprintf("%s (%s)", ref, key))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, fmt.Errorf("%w (run build-spine after importing a translation that has them):\n  - %s",
			ErrUnresolvedRefs, strings.Join(missing, "\n  - "))
	}

	var notes []entities.VerseNote
	var margins []entities.GreekMargin
	for _, u := range units {
		for _, n := range u.Notes {
			note := n.Note
			note.VerseID = ids[normalized[n.VerseRef]]
			notes = append(notes, note)
		}
		for _, m := range u.Margins {
			margin := m.Margin
			margin.VerseID = ids[normalized[m.VerseRef]]
			margins = append(margins, margin)
		}
	}
	return notes, margins, nil
}

func (u Unit) refs() []string {
	out := make([]string, 0, len(u.Notes)+len(u.Margins))
	for _, n := range u.Notes {
		out = append(out, n.VerseRef)
	}
	for _, m := range u.Margins {
		out = append(out, m.VerseRef)
	}
	return out
}

// ForVerses returns the annotations of the verses in rows, one entry per
// distinct verse in row order. Verses attached by build-spine use their
// verse_id; others are looked up by normalized reference. Storage failures
// are logged and produce no annotations.
func (s *Service) ForVerses(ctx context.Context, rows []entities.Verse) []VerseAnnotations {
	if len(rows) == 0 {
		return nil
	}

	var lookup []string
	for _, v := range rows {
		if v.VerseID == nil && v.NormalizedRef != "" {
			lookup = append(lookup, v.NormalizedRef)
		}
	}
	byRef, err := s.repo.CanonicalIDs(ctx, lookup)
	if err != nil {
		logging.Warn("database error while resolving annotation verses", database.ErrorAttrs(err)...)
		return nil
	}

	var order []VerseAnnotations
	var ids []uint
	index := make(map[uint]int)
	for _, v := range rows {
		var id uint
		switch {
		case v.VerseID != nil:
			id = *v.VerseID
		case byRef[v.NormalizedRef] != 0:
			id = byRef[v.NormalizedRef]
		default:
			continue
		}
		if _, seen := index[id]; seen {
			continue
		}
		index[id] = len(order)
		ids = append(ids, id)
		order = append(order, VerseAnnotations{BookCode: v.BookCode, Chapter: v.Chapter, Verse: v.VerseNum})
	}

	notes, err := s.repo.NotesFor(ctx, ids)
	if err != nil {
		logging.Warn("database error while reading verse notes", database.ErrorAttrs(err)...)
		return nil
	}
	margins, err := s.repo.MarginsFor(ctx, ids)
	if err != nil {
		logging.Warn("database error while reading greek margins", database.ErrorAttrs(err)...)
		return nil
	}

	for _, n := range notes {
		i := index[n.VerseID]
		order[i].Notes = append(order[i].Notes, n)
	}
	for _, m := range margins {
		i := index[m.VerseID]
		order[i].Margins = append(order[i].Margins, m)
	}

	out := order[:0]
	for _, va := range order {
		if len(va.Notes) > 0 || len(va.Margins) > 0 {
			out = append(out, va)
		}
	}
	return out
}

// Counts returns the study layer totals, or zeros with a warning on error.
func (s *Service) Counts(ctx context.Context) entities.AnnotationCounts {
	c, err := s.repo.Counts(ctx)
	if err != nil {
		logging.Warn("could not count annotations", database.ErrorAttrs(err)...)
		return entities.AnnotationCounts{}
	}
	return c
}
