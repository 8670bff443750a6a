package entities

// DefaultNoteKind is used for verse notes that do not name a kind.
const DefaultNoteKind = "midrash"

// CorePassage is a study unit: a titled range with a summary that groups
// verse notes and Greek margins.
type CorePassage struct {
	UnitID    string `gorm:"primaryKey;size:128" json:"unit_id"`
	Category  string `gorm:"size:128;not null" json:"category"`
	Title     string `gorm:"size:256;not null" json:"title"`
	RangeRef  string `gorm:"size:128;not null" json:"range_ref"`
	SummaryMD string `gorm:"type:text;not null" json:"summary_md"`
	Tags      string `gorm:"size:512;not null;default:''" json:"tags"`
}

func (CorePassage) TableName() string {
	return "core_passages"
}

// VerseNote is a markdown note attached to one canonical verse.
// (unit_id, verse_id, sort_order) is unique so re-installing a unit adds
// nothing.
type VerseNote struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	VerseID   uint    `gorm:"not null;index;uniqueIndex:idx_verse_notes_key,priority:2" json:"verse_id"` // canonical_verses.id
	NoteKind  string  `gorm:"size:32;not null;default:'midrash'" json:"note_kind"`
	UnitID    string  `gorm:"size:128;index;uniqueIndex:idx_verse_notes_key,priority:1" json:"unit_id"`
	Title     *string `gorm:"size:256" json:"title,omitempty"`
	NoteMD    string  `gorm:"type:text;not null" json:"note_md"`
	Tags      string  `gorm:"size:512;not null;default:''" json:"tags"`
	SortOrder int     `gorm:"not null;default:0;uniqueIndex:idx_verse_notes_key,priority:3" json:"sort_order"`
}

func (VerseNote) TableName() string {
	return "verse_notes"
}

// GreekMargin is a lexical margin entry for one Greek word of a canonical
// verse.
type GreekMargin struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	VerseID    uint   `gorm:"not null;index;uniqueIndex:idx_greek_margins_key,priority:2" json:"verse_id"` // canonical_verses.id
	UnitID     string `gorm:"size:128;index;uniqueIndex:idx_greek_margins_key,priority:1" json:"unit_id"`
	LemmaGreek string `gorm:"size:128;not null" json:"lemma_greek"`
	Translit   string `gorm:"size:128;not null" json:"translit"`
	Morph      string `gorm:"size:64;not null" json:"morph"`
	Gloss      string `gorm:"size:512;not null" json:"gloss"`
	NoteMD     string `gorm:"type:text;not null;default:''" json:"note_md"`
	SortOrder  int    `gorm:"not null;default:0;uniqueIndex:idx_greek_margins_key,priority:3" json:"sort_order"`
}

func (GreekMargin) TableName() string {
	return "greek_margins"
}

// InterlinearWord is one Greek token of a verse in an interlinear source.
// Strong's numbers are stored with their language prefix, e.g. "G976", so
// they join against strongs_lexicon.
type InterlinearWord struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	NormalizedRef string `gorm:"size:32;not null;uniqueIndex:idx_interlinear_key,priority:1" json:"normalized_ref"`
	WordOrder     int    `gorm:"not null;uniqueIndex:idx_interlinear_key,priority:2" json:"word_order"`
	BookNum       int    `gorm:"not null;index:idx_interlinear_loc,priority:1" json:"book_num"`
	Chapter       int    `gorm:"not null;index:idx_interlinear_loc,priority:2" json:"chapter"`
	VerseNum      int    `gorm:"column:verse;not null;index:idx_interlinear_loc,priority:3" json:"verse"`
	Greek         string `gorm:"size:128;not null" json:"greek"`
	Translit      string `gorm:"size:128" json:"translit,omitempty"`
	StrongsNumber string `gorm:"size:16;index" json:"strongs_number,omitempty"`
	Parsing       string `gorm:"size:32" json:"parsing,omitempty"`
	ParsingFull   string `gorm:"size:256" json:"parsing_full,omitempty"`
	Gloss         string `gorm:"size:256" json:"gloss,omitempty"`
}

func (InterlinearWord) TableName() string {
	return "interlinear_words"
}

// AnnotationCounts summarises the study layer for status output.
type AnnotationCounts struct {
	CorePassages     int64 `json:"core_passages"`
	VerseNotes       int64 `json:"verse_notes"`
	GreekMargins     int64 `json:"greek_margins"`
	InterlinearWords int64 `json:"interlinear_words"`
}
