package entities

import "time"

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type ImportKind string

const (
	ImportKindBible       ImportKind = "bible"
	ImportKindStrongs     ImportKind = "strongs"
	ImportKindAnnotations ImportKind = "annotations"
	ImportKindInterlinear ImportKind = "interlinear"
)

// ImportSession records one bulk import run. A translation whose latest
// session is not "completed" was interrupted part way through.
type ImportSession struct {
	ID              string       `gorm:"primaryKey;size:36" json:"id"` // UUID
	Kind            ImportKind   `gorm:"size:20;not null" json:"kind"`
	TranslationCode string       `gorm:"size:16;index" json:"translation_code,omitempty"`
	SourcePath      string       `gorm:"size:1024" json:"source_path"`
	SourceFormat    string       `gorm:"size:20" json:"source_format"`
	SourceHash      string       `gorm:"size:64" json:"source_hash"`
	Status          ImportStatus `gorm:"size:20;default:'running'" json:"status"`
	RowsParsed      int          `json:"rows_parsed"`
	RowsInserted    int          `json:"rows_inserted"`
	RowsSkipped     int          `json:"rows_skipped"`
	Errors          string       `gorm:"type:text" json:"errors,omitempty"` // newline separated
	StartedAt       time.Time    `json:"started_at"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
}

func (ImportSession) TableName() string {
	return "import_sessions"
}

// StrongsEntry is one Strong's lexicon entry, e.g. G26 (agape).
type StrongsEntry struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	StrongsNumber string `gorm:"size:16;not null;uniqueIndex" json:"strongs_number"`
	Language      string `gorm:"size:8;not null" json:"language"`
	Lemma         string `gorm:"size:256;not null" json:"lemma"`
	Gloss         string `gorm:"type:text" json:"gloss,omitempty"`
	Extra         string `gorm:"type:text" json:"extra,omitempty"`
}

func (StrongsEntry) TableName() string {
	return "strongs_lexicon"
}
