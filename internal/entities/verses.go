package entities

import "time"

// Verse is a single verse row of one imported translation.
// The logical key is (translation_code, book_num, chapter, verse).
type Verse struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TranslationCode string    `gorm:"size:16;not null;uniqueIndex:idx_verses_key,priority:1" json:"translation_code"`
	BookNum         int       `gorm:"not null;uniqueIndex:idx_verses_key,priority:2" json:"book_num"`
	BookCode        string    `gorm:"size:8;not null" json:"book_code"`
	Chapter         int       `gorm:"not null;uniqueIndex:idx_verses_key,priority:3" json:"chapter"`
	VerseNum        int       `gorm:"column:verse;not null;uniqueIndex:idx_verses_key,priority:4" json:"verse"`
	NormalizedRef   string    `gorm:"size:32;index" json:"normalized_ref"` // e.g. "GEN.1.1"
	Text            string    `gorm:"type:text;not null" json:"text"`
	WordCount       int       `json:"word_count"`
	VerseID         *uint     `gorm:"index" json:"verse_id,omitempty"` // canonical_verses.id, filled by build-spine
	CreatedAt       time.Time `json:"created_at"`
}

func (Verse) TableName() string {
	return "verses_normalized"
}

// Translation is a registry entry describing an imported text version.
type Translation struct {
	Code        string    `gorm:"primaryKey;size:16" json:"code"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Language    string    `gorm:"size:16;not null;default:'en'" json:"language"`
	SourceNotes string    `gorm:"type:text" json:"source_notes,omitempty"`
	SourceHash  string    `gorm:"size:64" json:"source_hash,omitempty"` // BLAKE3 of the imported file
	ImportedAt  time.Time `json:"imported_at"`
}

func (Translation) TableName() string {
	return "translations"
}

// CanonicalVerse is one row of the verse spine: a single entry per
// normalized reference regardless of translation.
type CanonicalVerse struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	BookNum       int    `gorm:"not null;index" json:"book_num"`
	BookCode      string `gorm:"size:8;not null" json:"book_code"`
	Chapter       int    `gorm:"not null" json:"chapter"`
	VerseNum      int    `gorm:"column:verse;not null" json:"verse"`
	NormalizedRef string `gorm:"size:32;not null;uniqueIndex" json:"normalized_ref"`
}

func (CanonicalVerse) TableName() string {
	return "canonical_verses"
}

// TranslationCount is the number of stored verses for one translation.
type TranslationCount struct {
	TranslationCode string `json:"translation_code"`
	VerseCount      int64  `json:"verse_count"`
}
