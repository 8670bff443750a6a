// Package importers loads Bible translations into verses_normalized.
//
// # Architecture
//
// The import pipeline follows a simple flow:
//
//	Source file (.csv/.xlsx/.txt, optionally .xz) → Load → Converter → RawVerse
//	  → Pipeline (resolve book, normalize) → entities.Verse → batched upsert
//
// Each source format has a parser that yields RawVerse rows plus per-line
// diagnostics ("Line N: reason"), and a Converter holding the parsed rows.
// The Pipeline resolves book tokens against the canon, builds the
// normalized reference and word count, and writes the rows in committed
// batches (or one transaction with Options.Atomic). Every run that writes
// is tracked by an ImportSession and an audit JSON record; dry runs only
// leave the audit record.
//
// # Adding a New Source Format
//
//  1. Create a new file: osis.go
//
//  2. Parse the source into RawVerse rows:
//
//     func ParseOSIS(r io.Reader, maxRows int) ([]RawVerse, []string, error)
//
//  3. Implement the Converter interface:
//
//     type OSISConverter struct {
//     Rows   []RawVerse
//     Source Source
//     }
//
//     func (c *OSISConverter) Convert() ([]RawVerse, Source) {
//     return c.Rows, c.Source
//     }
//
//     // Compile-time check
//     var _ Converter = (*OSISConverter)(nil)
//
//  4. Register the extension in DetectFormat and the parser in Load.
package importers
