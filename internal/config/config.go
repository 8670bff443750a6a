package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Canon
		Import
		Query
		Reports
		Audit
		Policy
		Logging
	}

	Database struct {
		Path     string
		SQLDebug bool // Log every SQL statement through the gorm logger
	}
	Canon struct {
		Path string // Empty means the embedded 66-book canon
	}
	Import struct {
		BatchSize int
	}
	Query struct {
		DefaultTranslation string
		SearchLimit        int
		ContextBefore      int
		ContextAfter       int
	}
	Reports struct {
		Dir string
	}
	Audit struct {
		Dir string
	}
	Policy struct {
		PrefacePath string
		BodyPath    string
	}
	Logging struct {
		Level  string // debug, info, warn, error
		Format string // text, json
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("sql_debug", false)
	v.SetDefault("canon_path", "")
	v.SetDefault("import_batch_size", DefaultBatchSize)
	v.SetDefault("default_translation", DefaultTranslation)
	v.SetDefault("search_limit", DefaultSearchLimit)
	v.SetDefault("context_before", DefaultContextBefore)
	v.SetDefault("context_after", DefaultContextAfter)
	v.SetDefault("reports_dir", DefaultReportsDir)
	v.SetDefault("audit_dir", DefaultAuditDir)
	v.SetDefault("policy_preface_path", DefaultPolicyPrefacePath)
	v.SetDefault("policy_body_path", DefaultPolicyBodyPath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Optional compendium.yaml (or .toml/.json) next to the database
	v.SetConfigName(ConfigFileName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("WARNING: failed to read config file: %v", err)
		}
	}

	return &Config{
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			SQLDebug: v.GetBool("SQL_DEBUG"),
		},
		Canon: Canon{
			Path: v.GetString("CANON_PATH"),
		},
		Import: Import{
			BatchSize: v.GetInt("IMPORT_BATCH_SIZE"),
		},
		Query: Query{
			DefaultTranslation: v.GetString("DEFAULT_TRANSLATION"),
			SearchLimit:        v.GetInt("SEARCH_LIMIT"),
			ContextBefore:      v.GetInt("CONTEXT_BEFORE"),
			ContextAfter:       v.GetInt("CONTEXT_AFTER"),
		},
		Reports: Reports{
			Dir: v.GetString("REPORTS_DIR"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Policy: Policy{
			PrefacePath: v.GetString("POLICY_PREFACE_PATH"),
			BodyPath:    v.GetString("POLICY_BODY_PATH"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
