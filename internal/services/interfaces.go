package services

import (
	"context"

	notesdb "github.com/mrlokans/compendium/internal/database/annotations"
	"github.com/mrlokans/compendium/internal/database/interlinear"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/entities"
)

// VerseReader provides read-only access to stored verses.
// Use this interface when you only need to query verses.
type VerseReader interface {
	Range(ctx context.Context, q verses.RangeQuery) ([]entities.Verse, error)
	Search(ctx context.Context, text, translation string, limit int) ([]entities.Verse, error)
}

// VerseWriter persists normalized verses.
type VerseWriter interface {
	UpsertBatch(ctx context.Context, rows []entities.Verse) error
	DeleteTranslation(ctx context.Context, code string) (int64, error)
}

// TranslationRegistry records which translations have been imported.
type TranslationRegistry interface {
	Upsert(ctx context.Context, t *entities.Translation) error
	List(ctx context.Context) ([]entities.Translation, error)
}

// SessionTracker records the lifecycle of bulk imports.
type SessionTracker interface {
	Start(ctx context.Context, s *entities.ImportSession) error
	Finish(ctx context.Context, s *entities.ImportSession, rowErrors []string, runErr error) error
}

// PolicyStore reads and writes the hermeneutical policy row.
type PolicyStore interface {
	Current(ctx context.Context) (*entities.HermeneuticalPolicy, error)
	Create(ctx context.Context, p *entities.HermeneuticalPolicy) error
}

// AnnotationStore installs and reads the study layer keyed by canonical
// verse id.
type AnnotationStore interface {
	CanonicalIDs(ctx context.Context, refs []string) (map[string]uint, error)
	UpsertPassages(ctx context.Context, passages []entities.CorePassage) error
	Install(ctx context.Context, notes []entities.VerseNote, margins []entities.GreekMargin) (notesdb.InstallResult, error)
	NotesFor(ctx context.Context, verseIDs []uint) ([]entities.VerseNote, error)
	MarginsFor(ctx context.Context, verseIDs []uint) ([]entities.GreekMargin, error)
}

// InterlinearStore holds interlinear tokens and the Strong's number
// cross-reference queries over them.
type InterlinearStore interface {
	UpsertWords(ctx context.Context, words []entities.InterlinearWord) error
	Words(ctx context.Context, normalizedRef string) ([]entities.InterlinearWord, error)
	SharedWith(ctx context.Context, normalizedRef string, minShared, limit int) ([]interlinear.VerseMatch, error)
	ContainingAll(ctx context.Context, numbers []string, limit int) ([]interlinear.VerseMatch, error)
}
