package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBounds(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	if err := c.validateNotebook(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBounds() error {
	switch c.Bounds.UnknownValuePolicy {
	case PolicyReject, PolicyAccept, PolicyPrompt:
	default:
		return fmt.Errorf("bounds.unknown_value_policy must be one of reject, accept, prompt (got %q)", c.Bounds.UnknownValuePolicy)
	}
	if strings.TrimSpace(c.Paths.BoundsFile) == "" {
		return fmt.Errorf("paths.bounds_file must be set")
	}
	return nil
}

func (c *Config) validateLedger() error {
	switch c.Ledger.Driver {
	case LedgerSQLite:
		if strings.TrimSpace(c.Paths.LedgerDB) == "" {
			return fmt.Errorf("paths.ledger_db must be set when ledger.driver is sqlite")
		}
	case LedgerMemory:
	default:
		return fmt.Errorf("ledger.driver must be sqlite or memory (got %q)", c.Ledger.Driver)
	}
	switch c.Ledger.DuplicateNames {
	case DuplicatesReject, DuplicatesOverwrite:
	default:
		return fmt.Errorf("ledger.duplicate_names must be reject or overwrite (got %q)", c.Ledger.DuplicateNames)
	}
	return nil
}

func (c *Config) validateNotebook() error {
	if c.Notebook.Email == "" {
		return nil
	}
	at := strings.Index(c.Notebook.Email, "@")
	if at <= 0 || strings.Count(c.Notebook.Email, "@") != 1 || !strings.Contains(c.Notebook.Email[at+1:], ".") {
		return fmt.Errorf("notebook.email %q is not a valid address", c.Notebook.Email)
	}
	return nil
}
