package config

const (
	defaultConfigPath         = "~/.config/labbook/config.toml"
	defaultBoundsFile         = "~/.config/labbook/bounds.json"
	defaultLedgerDB           = "~/.local/share/labbook/ledger.db"
	defaultUnknownValuePolicy = PolicyPrompt
	defaultLedgerDriver       = LedgerSQLite
	defaultDuplicateNames     = DuplicatesReject
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Unknown categorical value policies.
const (
	PolicyReject = "reject"
	PolicyAccept = "accept"
	PolicyPrompt = "prompt"
)

// Ledger drivers.
const (
	LedgerSQLite = "sqlite"
	LedgerMemory = "memory"
)

// Duplicate generated-name policies.
const (
	DuplicatesReject    = "reject"
	DuplicatesOverwrite = "overwrite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BoundsFile: defaultBoundsFile,
			LedgerDB:   defaultLedgerDB,
		},
		Bounds: Bounds{
			UnknownValuePolicy: defaultUnknownValuePolicy,
			SeedFromCatalog:    true,
		},
		Ledger: Ledger{
			Driver:         defaultLedgerDriver,
			DuplicateNames: defaultDuplicateNames,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
