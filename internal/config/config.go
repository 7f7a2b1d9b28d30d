package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations used by a notebook session.
type Paths struct {
	BoundsFile string `toml:"bounds_file"`
	LedgerDB   string `toml:"ledger_db"`
	LogDir     string `toml:"log_dir"`
}

// Bounds controls how unknown categorical values are handled.
type Bounds struct {
	// UnknownValuePolicy is one of "reject", "accept", or "prompt".
	UnknownValuePolicy string `toml:"unknown_value_policy"`
	// SeedFromCatalog adds catalog categories for attributes missing from the
	// bounds file when a session opens.
	SeedFromCatalog bool `toml:"seed_from_catalog"`
}

// Ledger selects the spec repository backend.
type Ledger struct {
	// Driver is "sqlite" or "memory".
	Driver string `toml:"driver"`
	// DuplicateNames is "reject" or "overwrite".
	DuplicateNames string `toml:"duplicate_names"`
}

// Notebook carries default provenance for entries written in a session.
type Notebook struct {
	Keeper string `toml:"keeper"`
	Email  string `toml:"email"`
	Tag    string `toml:"tag"`
	Page   string `toml:"page"`
	Title  string `toml:"title"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for labbook.
//
// Configuration sections by subsystem:
//   - Paths: bounds registry file, ledger database, log directory
//   - Bounds: unknown categorical value policy
//   - Ledger: spec repository backend and duplicate-name policy
//   - Notebook: keeper identity used for run sources
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Bounds   Bounds   `toml:"bounds"`
	Ledger   Ledger   `toml:"ledger"`
	Notebook Notebook `toml:"notebook"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("labbook.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the parent directories of configured files.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.BoundsFile)}
	if c.Ledger.Driver == LedgerSQLite {
		dirs = append(dirs, filepath.Dir(c.Paths.LedgerDB))
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
