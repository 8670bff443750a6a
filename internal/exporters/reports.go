package exporters

import (
	"fmt"
	"strings"

	"github.com/mrlokans/compendium/internal/annotations"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/policy"
	"github.com/mrlokans/compendium/internal/query"
)

const (
	noPassageVerses = "(No verses found for this passage.)"
	noContextVerses = "(No context verses found.)"
	policyMissing   = "Hermeneutical Policy: NOT INITIALIZED"
)

// PassageInput carries the rows of a passage report. Context is only
// rendered when IncludeContext is set, even if it is empty.
type PassageInput struct {
	Ref            string
	Translation    string
	Passage        []entities.Verse
	Context        []entities.Verse
	IncludeContext bool
	Policy         *PolicyInfo
	Annotations    []annotations.VerseAnnotations // rendered only when non-empty
}

type ParallelInput struct {
	Ref          string
	Translations []string
	Rows         []query.ParallelRow
	Policy       *PolicyInfo
}

// Basic renders a title, its underline and a free-form body.
func Basic(title, body string) Report {
	var b strings.Builder
	writeTitle(&b, title)
	b.WriteString(body)
	b.WriteString("\n")
	return Report{Kind: KindBasic, Title: title, Content: b.String()}
}

func Passage(in PassageInput) Report {
	code := strings.ToUpper(in.Translation)
	title := fmt.Sprintf("Passage Report - %s (%s)", in.Ref, code)

	var b strings.Builder
	writeTitle(&b, title)
	fmt.Fprintf(&b, "Reference : %s\n", in.Ref)
	fmt.Fprintf(&b, "Translation: %s\n", code)
	b.WriteString(policyLine(in.Policy))
	b.WriteString("\n\n")

	b.WriteString("[Passage]\n")
	writeVerses(&b, in.Passage, noPassageVerses)

	if in.IncludeContext {
		b.WriteString("\n[Context Window]\n")
		writeVerses(&b, in.Context, noContextVerses)
	}

	writeAnnotations(&b, in.Annotations)
	return Report{Kind: KindPassage, Title: title, Content: b.String()}
}

// writeAnnotations adds the [Study Notes] and [Greek Margins] sections,
// each only when it has entries.
func writeAnnotations(b *strings.Builder, groups []annotations.VerseAnnotations) {
	var notes, margins int
	for _, g := range groups {
		notes += len(g.Notes)
		margins += len(g.Margins)
	}

	if notes > 0 {
		b.WriteString("\n[Study Notes]\n")
		for _, g := range groups {
			for _, n := range g.Notes {
				fmt.Fprintf(b, "%s  (%s)", g.Label(), n.NoteKind)
				if n.Title != nil {
					fmt.Fprintf(b, " %s", *n.Title)
				}
				b.WriteString("\n")
				writeIndented(b, n.NoteMD)
			}
		}
	}

	if margins > 0 {
		b.WriteString("\n[Greek Margins]\n")
		for _, g := range groups {
			for _, m := range g.Margins {
				fmt.Fprintf(b, "%s  %s (%s) %s: %s\n", g.Label(), m.LemmaGreek, m.Translit, m.Morph, m.Gloss)
				if m.NoteMD != "" {
					writeIndented(b, m.NoteMD)
				}
			}
		}
	}
}

func writeIndented(b *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// Parallel renders one block per verse with a line per translation in the
// requested order. Missing verses use the query placeholder text.
func Parallel(in ParallelInput) Report {
	codes := query.NormalizeCodes(in.Translations)
	title := fmt.Sprintf("Parallel Translation Report - %s", in.Ref)

	var b strings.Builder
	writeTitle(&b, title)
	fmt.Fprintf(&b, "Reference : %s\n", in.Ref)
	fmt.Fprintf(&b, "Translations: %s\n", strings.Join(codes, ", "))
	b.WriteString(policyLine(in.Policy))
	b.WriteString("\n\n")

	for _, row := range in.Rows {
		fmt.Fprintf(&b, "%s %d:%d\n", row.BookCode, row.Chapter, row.Verse)
		for _, code := range codes {
			fmt.Fprintf(&b, "  [%s] %s\n", code, row.TextFor(code))
		}
		b.WriteString("\n")
	}
	return Report{Kind: KindParallel, Title: title, Content: b.String()}
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))))
	b.WriteString("\n\n")
}

func writeVerses(b *strings.Builder, rows []entities.Verse, empty string) {
	if len(rows) == 0 {
		b.WriteString(empty)
		b.WriteString("\n")
		return
	}
	for _, v := range rows {
		fmt.Fprintf(b, "%s %d:%d  %s\n", v.BookCode, v.Chapter, v.VerseNum, v.Text)
	}
}

func policyLine(p *PolicyInfo) string {
	if p == nil {
		return policyMissing
	}
	return fmt.Sprintf("Hermeneutical Policy: v%s (checksum %s...)", p.Version, policy.ShortChecksum(p.Checksum))
}
