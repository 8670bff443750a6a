// Package annotations installs study annotations (core passage units,
// verse notes and Greek margins) from JSON files and reads them back for
// passages. Annotations attach to canonical verses, so the spine must be
// built before installing.
package annotations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/compendium/internal/entities"
)

var ErrInvalidFile = errors.New("invalid annotation file")

// ValidationError lists every problem found in one file. Nothing from a
// file with problems is installed.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d validation error(s): %s", e.Path, len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidFile
}

// Tags accepts either a comma separated string or a list of strings.
type Tags string

func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*t = Tags(strings.Join(list, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Tags(s)
	return nil
}

// PassagesFile is a core passages registry:
//
//	{"passages": [{"unit_id": "...", "category": "...", "title": "...",
//	  "range_ref": "...", "summary_md": "...", "tags": "..."}]}
type PassagesFile struct {
	Passages *[]passageJSON `json:"passages"`
}

type passageJSON struct {
	UnitID    *string `json:"unit_id"`
	Category  *string `json:"category"`
	Title     *string `json:"title"`
	RangeRef  *string `json:"range_ref"`
	SummaryMD *string `json:"summary_md"`
	Tags      Tags    `json:"tags"`
}

// NotesFile holds the verse notes of one unit.
type NotesFile struct {
	UnitID  *string     `json:"unit_id"`
	Passage *string     `json:"passage"`
	Notes   *[]noteJSON `json:"notes"`
}

type noteJSON struct {
	VerseRef  *string `json:"verse_ref"`
	NoteKind  *string `json:"note_kind"`
	Title     *string `json:"title"`
	NoteMD    *string `json:"note_md"`
	Tags      Tags    `json:"tags"`
	SortOrder *int    `json:"sort_order"`
}

// MarginsFile holds the Greek margin annotations of one unit.
type MarginsFile struct {
	UnitID      *string       `json:"unit_id"`
	Passage     *string       `json:"passage"`
	Annotations *[]marginJSON `json:"annotations"`
}

type marginJSON struct {
	VerseRef   *string `json:"verse_ref"`
	SortOrder  *int    `json:"sort_order"`
	LemmaGreek *string `json:"lemma_greek"`
	Translit   *string `json:"translit"`
	Morph      *string `json:"morph"`
	Gloss      *string `json:"gloss"`
	NoteMD     *string `json:"note_md"`
}

// PendingNote is a validated note whose verse is still a human reference.
type PendingNote struct {
	VerseRef string
	Note     entities.VerseNote
}

// PendingMargin is a validated margin whose verse is still a human reference.
type PendingMargin struct {
	VerseRef string
	Margin   entities.GreekMargin
}

// Unit is the validated content of a notes or margins file.
type Unit struct {
	UnitID  string
	Passage string
	Notes   []PendingNote
	Margins []PendingMargin
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if err := json.Unmarshal(data, v); err != nil {
		return &ValidationError{Path: path, Problems: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}
	return nil
}

func missingTop(problems []string, field string, present bool) []string {
	if !present {
		problems = append(problems, fmt.Sprintf("Missing required field: %s", field))
	}
	return problems
}

func missingItem(problems []string, kind string, idx int, field string, present bool) []string {
	if !present {
		problems = append(problems, fmt.Sprintf("%s %d: missing field '%s'", kind, idx, field))
	}
	return problems
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// LoadPassages reads and validates a core passages registry.
func LoadPassages(path string) ([]entities.CorePassage, error) {
	var f PassagesFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if f.Passages == nil {
		return nil, &ValidationError{Path: path, Problems: []string{"Missing required field: passages"}}
	}

	var problems []string
	out := make([]entities.CorePassage, 0, len(*f.Passages))
	for idx, p := range *f.Passages {
		problems = missingItem(problems, "Passage", idx, "unit_id", p.UnitID != nil)
		problems = missingItem(problems, "Passage", idx, "category", p.Category != nil)
		problems = missingItem(problems, "Passage", idx, "title", p.Title != nil)
		problems = missingItem(problems, "Passage", idx, "range_ref", p.RangeRef != nil)
		problems = missingItem(problems, "Passage", idx, "summary_md", p.SummaryMD != nil)

		out = append(out, entities.CorePassage{
			UnitID:    str(p.UnitID),
			Category:  str(p.Category),
			Title:     str(p.Title),
			RangeRef:  str(p.RangeRef),
			SummaryMD: str(p.SummaryMD),
			Tags:      string(p.Tags),
		})
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Path: path, Problems: problems}
	}
	return out, nil
}

// LoadNotes reads and validates a verse notes file. A note without a kind
// is a midrash note.
func LoadNotes(path string) (Unit, error) {
	var f NotesFile
	if err := readJSON(path, &f); err != nil {
		return Unit{}, err
	}

	var problems []string
	problems = missingTop(problems, "unit_id", f.UnitID != nil)
	problems = missingTop(problems, "passage", f.Passage != nil)
	problems = missingTop(problems, "notes", f.Notes != nil)

	unit := Unit{UnitID: str(f.UnitID), Passage: str(f.Passage)}
	if f.Notes != nil {
		for idx, n := range *f.Notes {
			problems = missingItem(problems, "Note", idx, "verse_ref", n.VerseRef != nil)
			problems = missingItem(problems, "Note", idx, "note_md", n.NoteMD != nil)
			problems = missingItem(problems, "Note", idx, "sort_order", n.SortOrder != nil)

			kind := str(n.NoteKind)
			if kind == "" {
				kind = entities.DefaultNoteKind
			}
			var title *string
			if t := str(n.Title); t != "" {
				title = &t
			}
			note := entities.VerseNote{
				UnitID:   unit.UnitID,
				NoteKind: kind,
				Title:    title,
				NoteMD:   str(n.NoteMD),
				Tags:     string(n.Tags),
			}
			if n.SortOrder != nil {
				note.SortOrder = *n.SortOrder
			}
			unit.Notes = append(unit.Notes, PendingNote{VerseRef: str(n.VerseRef), Note: note})
		}
	}

	if len(problems) > 0 {
		return Unit{}, &ValidationError{Path: path, Problems: problems}
	}
	return unit, nil
}

// LoadMargins reads and validates a Greek margins file. sort_order values
// must be unique across the file.
func LoadMargins(path string) (Unit, error) {
	var f MarginsFile
	if err := readJSON(path, &f); err != nil {
		return Unit{}, err
	}

	var problems []string
	problems = missingTop(problems, "unit_id", f.UnitID != nil)
	problems = missingTop(problems, "passage", f.Passage != nil)
	problems = missingTop(problems, "annotations", f.Annotations != nil)

	unit := Unit{UnitID: str(f.UnitID), Passage: str(f.Passage)}
	if f.Annotations != nil {
		seen := make(map[int]bool)
		duplicate := false
		for idx, a := range *f.Annotations {
			problems = missingItem(problems, "Annotation", idx, "verse_ref", a.VerseRef != nil)
			problems = missingItem(problems, "Annotation", idx, "sort_order", a.SortOrder != nil)
			problems = missingItem(problems, "Annotation", idx, "lemma_greek", a.LemmaGreek != nil)
			problems = missingItem(problems, "Annotation", idx, "translit", a.Translit != nil)
			problems = missingItem(problems, "Annotation", idx, "morph", a.Morph != nil)
			problems = missingItem(problems, "Annotation", idx, "gloss", a.Gloss != nil)

			margin := entities.GreekMargin{
				UnitID:     unit.UnitID,
				LemmaGreek: str(a.LemmaGreek),
				Translit:   str(a.Translit),
				Morph:      str(a.Morph),
				Gloss:      str(a.Gloss),
				NoteMD:     str(a.NoteMD),
			}
			if a.SortOrder != nil {
				margin.SortOrder = *a.SortOrder
				if seen[*a.SortOrder] {
					duplicate = true
				}
				seen[*a.SortOrder] = true
			}
			unit.Margins = append(unit.Margins, PendingMargin{VerseRef: str(a.VerseRef), Margin: margin})
		}
		if duplicate {
			problems = append(problems, "Duplicate sort_order values detected")
		}
	}

	if len(problems) > 0 {
		return Unit{}, &ValidationError{Path: path, Problems: problems}
	}
	return unit, nil
}
