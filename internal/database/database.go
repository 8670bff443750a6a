package database

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/compendium/internal/entities"
	"github.com/mrlokans/compendium/internal/logging"
)

var ErrDatabaseMissing = errors.New("database file does not exist")

// policyLockTriggers make the hermeneutical_policy row write-once.
var policyLockTriggers = []string{
	`CREATE TRIGGER IF NOT EXISTS hermeneutical_policy_no_update
	BEFORE UPDATE ON hermeneutical_policy
	BEGIN
		SELECT RAISE(ABORT, 'hermeneutical_policy is locked');
	END;`,
	`CREATE TRIGGER IF NOT EXISTS hermeneutical_policy_no_delete
	BEFORE DELETE ON hermeneutical_policy
	BEGIN
		SELECT RAISE(ABORT, 'hermeneutical_policy is locked');
	END;`,
}

type Database struct {
	DB   *gorm.DB
	Path string
}

type Options struct {
	ReadOnly bool
	SQLDebug bool // Log every statement to stderr
}

// NewDatabase opens the database for writing and migrates the schema.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(dbPath, Options{})
}

// OpenReadOnly opens an existing database with mode=ro. A missing file is
// reported as ErrDatabaseMissing instead of silently creating an empty one.
func OpenReadOnly(dbPath string) (*Database, error) {
	return Open(dbPath, Options{ReadOnly: true})
}

func Open(dbPath string, opts Options) (*Database, error) {
	dsn := dbPath
	if opts.ReadOnly {
		if _, err := os.Stat(dbPath); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrDatabaseMissing, dbPath)
			}
			return nil, fmt.Errorf("failed to stat database: %w", err)
		}
		dsn = readOnlyDSN(dbPath)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newLogger(opts.SQLDebug),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, Path: dbPath}
	if opts.ReadOnly {
		return database, nil
	}

	if err := database.migrate(); err != nil {
		database.Close()
		return nil, err
	}

	logging.Debug("database initialized", "path", dbPath)
	return database, nil
}

// readOnlyDSN builds a file: URI so that '?' and '#' in the path are
// escaped instead of being read as the query or fragment. The path is made
// absolute because a relative one would be taken as the URI authority.
func readOnlyDSN(dbPath string) string {
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	p := filepath.ToSlash(dbPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // windows drive letters
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String()
}

func (d *Database) migrate() error {
	// Auto-migrate all entities
	err := d.DB.AutoMigrate(
		&entities.Translation{},
		&entities.Verse{},
		&entities.CanonicalVerse{},
		&entities.HermeneuticalPolicy{},
		&entities.ImportSession{},
		&entities.StrongsEntry{},
		&entities.CorePassage{},
		&entities.VerseNote{},
		&entities.GreekMargin{},
		&entities.InterlinearWord{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range policyLockTriggers {
		if err := d.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to install policy triggers: %w", err)
		}
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// HasTable reports whether the table backing model exists.
func (d *Database) HasTable(model any) bool {
	return d.DB.Migrator().HasTable(model)
}

func newLogger(debug bool) logger.Interface {
	if !debug {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Info,
			Colorful:      false,
		},
	)
}
