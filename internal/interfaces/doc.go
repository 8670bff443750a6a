// Package interfaces documents the core abstractions used throughout the compendium.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - VerseReader: range fetch and text search (internal/services/interfaces.go)
//   - VerseWriter: bulk upsert and translation overwrite (internal/services/interfaces.go)
//   - TranslationRegistry: imported translation registry (internal/services/interfaces.go)
//   - SessionTracker: import run lifecycle (internal/services/interfaces.go)
//   - PolicyStore: write-once hermeneutical policy (internal/services/interfaces.go)
//
// ## Import Interfaces
//
//   - Converter: turns a source file into raw verse rows (internal/importers/converter.go)
//
// # Adding a New Source Format
//
//  1. Create a converter in internal/importers/
//
//     type OSISConverter struct {
//         rows   []RawVerse
//         source Source
//     }
//
//     func (c *OSISConverter) Convert() ([]RawVerse, Source) {
//         return c.rows, c.source
//     }
//
//  2. Add the format to importers.DetectFormat and importers.Load
//
//  3. Add a compile-time check to checks.go:
//
//     var _ importers.Converter = (*importers.OSISConverter)(nil)
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/notes/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the interface to internal/services/interfaces.go and a
//     compile-time check to checks.go:
//
//     var _ services.NoteStore = (*notes.Repository)(nil)
package interfaces
