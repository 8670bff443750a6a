package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the compendium database
	DefaultDatabasePath = "./compendium.sqlite"

	DefaultReportsDir = "./reports"
	DefaultAuditDir   = "./audit"

	DefaultPolicyPrefacePath = "./data/policy_preface.txt"
	DefaultPolicyBodyPath    = "./data/policy_body.txt"
)

// Query and import defaults
const (
	DefaultTranslation   = "KJV"
	DefaultSearchLimit   = 20
	DefaultContextBefore = 2
	DefaultContextAfter  = 2
	DefaultBatchSize     = 500
)

// ConfigFileName is the optional config file (without extension) looked up
// in the working directory.
const ConfigFileName = "compendium"
