package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBounds()
	c.normalizeLedger()
	c.normalizeNotebook()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.BoundsFile) == "" {
		c.Paths.BoundsFile = defaultBoundsFile
	}
	if c.Paths.BoundsFile, err = expandPath(strings.TrimSpace(c.Paths.BoundsFile)); err != nil {
		return fmt.Errorf("paths.bounds_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerDB) == "" {
		c.Paths.LedgerDB = defaultLedgerDB
	}
	if c.Paths.LedgerDB, err = expandPath(strings.TrimSpace(c.Paths.LedgerDB)); err != nil {
		return fmt.Errorf("paths.ledger_db: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBounds() {
	c.Bounds.UnknownValuePolicy = strings.ToLower(strings.TrimSpace(c.Bounds.UnknownValuePolicy))
	if c.Bounds.UnknownValuePolicy == "" {
		c.Bounds.UnknownValuePolicy = defaultUnknownValuePolicy
	}
}

func (c *Config) normalizeLedger() {
	c.Ledger.Driver = strings.ToLower(strings.TrimSpace(c.Ledger.Driver))
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = defaultLedgerDriver
	}
	c.Ledger.DuplicateNames = strings.ToLower(strings.TrimSpace(c.Ledger.DuplicateNames))
	if c.Ledger.DuplicateNames == "" {
		c.Ledger.DuplicateNames = defaultDuplicateNames
	}
}

func (c *Config) normalizeNotebook() {
	c.Notebook.Keeper = strings.TrimSpace(c.Notebook.Keeper)
	c.Notebook.Email = strings.TrimSpace(c.Notebook.Email)
	if c.Notebook.Email == "" {
		if value, ok := os.LookupEnv("LABBOOK_EMAIL"); ok {
			c.Notebook.Email = strings.TrimSpace(value)
		}
	}
	c.Notebook.Tag = strings.TrimSpace(c.Notebook.Tag)
	c.Notebook.Page = strings.TrimSpace(c.Notebook.Page)
	c.Notebook.Title = strings.TrimSpace(c.Notebook.Title)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
