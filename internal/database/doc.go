// Package database provides the data access layer for the compendium.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, policy lock triggers
//	├── errors.go        # SQLite error classification
//	├── verses/          # verses_normalized range fetch, search, bulk upsert
//	├── translations/    # Translation registry
//	├── spine/           # Canonical verse spine
//	├── policies/        # Write-once hermeneutical policy row
//	├── imports/         # Import session tracking
//	└── strongs/         # Strong's lexicon
//
// # Using Sub-packages
//
//	// Writers migrate the schema on open
//	db, err := database.NewDatabase("./compendium.sqlite")
//
//	// Readers never touch the schema
//	db, err := database.OpenReadOnly("./compendium.sqlite")
//
//	verseRepo := verses.NewRepository(db.DB)
//	rows, err := verseRepo.Range(ctx, verses.RangeQuery{...})
//
// Repositories accept any *gorm.DB, so passing a transaction handle from
// db.DB.Transaction scopes every statement to that transaction.
package database
