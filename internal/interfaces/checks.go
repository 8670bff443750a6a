package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/compendium/internal/database/annotations"
	"github.com/mrlokans/compendium/internal/database/imports"
	"github.com/mrlokans/compendium/internal/database/interlinear"
	"github.com/mrlokans/compendium/internal/database/policies"
	"github.com/mrlokans/compendium/internal/database/translations"
	"github.com/mrlokans/compendium/internal/database/verses"
	"github.com/mrlokans/compendium/internal/importers"
	"github.com/mrlokans/compendium/internal/services"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.VerseReader = (*verses.Repository)(nil)
var _ services.VerseWriter = (*verses.Repository)(nil)
var _ services.TranslationRegistry = (*translations.Repository)(nil)
var _ services.SessionTracker = (*imports.Repository)(nil)
var _ services.PolicyStore = (*policies.Repository)(nil)
var _ services.AnnotationStore = (*annotations.Repository)(nil)
var _ services.InterlinearStore = (*interlinear.Repository)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

// Converter implementations
var _ importers.Converter = (*importers.CSVConverter)(nil)
var _ importers.Converter = (*importers.XLSXConverter)(nil)
var _ importers.Converter = (*importers.PlaintextConverter)(nil)
