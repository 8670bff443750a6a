package cli

import (
	"fmt"
	"io"

	"github.com/mrlokans/compendium/internal/annotations"
	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/query"
)

// printVerses writes one block per verse:
//
//	[KJV] John 3:16
//	    For God so loved the world...
func printVerses(w io.Writer, c *canon.Canon, rows []entities.Verse) {
	for _, v := range rows {
		fmt.Fprintf(w, "[%s] %s %d:%d\n", v.TranslationCode, bookName(c, v.BookNum, v.BookCode), v.Chapter, v.VerseNum)
		fmt.Fprintf(w, "    %s\n", v.Text)
		fmt.Fprintln(w)
	}
}

// printParallel writes one block per verse with a line per translation.
func printParallel(w io.Writer, c *canon.Canon, codes []string, rows []query.ParallelRow) {
	for _, row := range rows {
		fmt.Fprintf(w, "%s %d:%d\n", c.NameFor(row.BookCode), row.Chapter, row.Verse)
		for _, code := range codes {
			fmt.Fprintf(w, "  [%s] %s\n", code, row.TextFor(code))
		}
		fmt.Fprintln(w)
	}
}

// printAnnotations writes the notes and margins of each annotated verse.
func printAnnotations(w io.Writer, groups []annotations.VerseAnnotations) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "(No study notes for this passage.)")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "Notes for %s\n", g.Label())
		for _, n := range g.Notes {
			if n.Title != nil {
				fmt.Fprintf(w, "  [%s] %s\n", n.NoteKind, *n.Title)
			} else {
				fmt.Fprintf(w, "  [%s]\n", n.NoteKind)
			}
			fmt.Fprintf(w, "    %s\n", n.NoteMD)
		}
		for _, m := range g.Margins {
			fmt.Fprintf(w, "  [greek] %s (%s) %s: %s\n", m.LemmaGreek, m.Translit, m.Morph, m.Gloss)
		}
		fmt.Fprintln(w)
	}
}

// printWords writes interlinear tokens, one per line.
func printWords(w io.Writer, words []entities.InterlinearWord) {
	for _, word := range words {
		number := word.StrongsNumber
		if number == "" {
			number = "-"
		}
		fmt.Fprintf(w, "%3d  %-16s %-16s %-7s %-12s %s\n", word.WordOrder, word.Greek, word.Translit, number, word.Parsing, word.Gloss)
	}
}

func bookName(c *canon.Canon, num int, code string) string {
	if e, ok := c.Entry(num); ok {
		return e.Name
	}
	return code
}
