package notebook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"labbook/internal/block"
	"labbook/internal/bounds"
	"labbook/internal/builder"
	"labbook/internal/catalog"
	"labbook/internal/config"
	"labbook/internal/entity"
	"labbook/internal/faults"
	"labbook/internal/ledger"
	"labbook/internal/logging"
	"labbook/internal/provenance"
	"labbook/internal/reagents"
	"labbook/internal/report"
)

const component = "notebook"

// Options configures session wiring. Zero values use the configuration.
type Options struct {
	// Logger overrides the logger built from the configuration.
	Logger *slog.Logger
	// Policy overrides the configured unknown-value policy.
	Policy bounds.UnknownValuePolicy
	// Stdin and Stdout back the interactive prompt policy.
	Stdin  *os.File
	Stdout io.Writer

	// Now dates the entry. Defaults to time.Now.
	Now func() time.Time
}

// Session holds everything a notebook entry needs.
type Session struct {
	Config     *config.Config
	Logger     *slog.Logger
	Catalog    *catalog.Catalog
	Registry   *bounds.Registry
	Reagents   *reagents.Table
	Ledger     *ledger.Ledger
	Builder    *builder.Builder
	Provenance provenance.Provenance
}

// Open wires a session from cfg.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Session, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "open", "config is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "open", "invalid config", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.NewFromConfig(cfg)
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "open", "init logger", err)
		}
	}

	prov := provenance.FromConfig(cfg.Notebook, opts.Now())
	if err := prov.Validate(); err != nil {
		return nil, err
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	table, err := reagents.Default()
	if err != nil {
		return nil, err
	}

	registry, err := bounds.Open(cfg.Paths.BoundsFile, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Bounds.SeedFromCatalog {
		if _, err := registry.Seed(ctx, cat); err != nil {
			return nil, err
		}
	}

	policy := opts.Policy
	if policy == nil {
		policy, err = bounds.PolicyByName(cfg.Bounds.UnknownValuePolicy, opts.Stdin, opts.Stdout, logger)
		if err != nil {
			return nil, err
		}
	}

	led, err := openLedger(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:     cfg,
		Logger:     logging.NewComponentLogger(logger, component),
		Catalog:    cat,
		Registry:   registry,
		Reagents:   table,
		Ledger:     led,
		Builder:    builder.New(cat, bounds.NewValidator(cat, registry, policy, logger), led, prov, logger),
		Provenance: prov,
	}
	s.Logger.Info("notebook session opened",
		logging.String(logging.FieldPage, prov.Page),
		logging.String(logging.FieldPolicy, cfg.Bounds.UnknownValuePolicy),
		logging.String("ledger_driver", cfg.Ledger.Driver),
		logging.String(logging.FieldPath, cfg.Paths.BoundsFile))
	return s, nil
}

func openLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ledger.Ledger, error) {
	policy, err := ledger.ParseDuplicatePolicy(cfg.Ledger.DuplicateNames)
	if err != nil {
		return nil, err
	}
	var repo ledger.Repository
	switch cfg.Ledger.Driver {
	case config.LedgerMemory:
		repo = ledger.NewMemoryRepository()
	case config.LedgerSQLite:
		sqlite, err := ledger.OpenSQLite(ctx, cfg.Paths.LedgerDB)
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "open ledger", cfg.Paths.LedgerDB, err)
		}
		repo = sqlite
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, component, "open ledger", fmt.Sprintf("unknown driver %q", cfg.Ledger.Driver), nil)
	}
	return ledger.New(repo, policy, logger), nil
}

// Context tags ctx with the entry page so every log line of the session
// carries it.
func (s *Session) Context(ctx context.Context) context.Context {
	return logging.WithPage(ctx, s.Provenance.Page)
}

// Assemble groups entities into a block, links them, and checks the links.
func (s *Session) Assemble(ctx context.Context, name string, process *entity.Process, material *entity.Material, ingredients []*entity.Ingredient, measurements []*entity.Measurement) (*block.Block, error) {
	blk, err := block.New(name, process, material, ingredients, measurements)
	if err != nil {
		return nil, err
	}
	blk.LinkWithin()
	if err := blk.Validate(); err != nil {
		return nil, err
	}
	logging.WithContext(logging.WithBlock(ctx, name), s.Logger).Info("block assembled",
		logging.Int("ingredients", len(ingredients)),
		logging.Int("measurements", len(measurements)))
	return blk, nil
}

// Summary writes the entry header followed by one table per block.
func (s *Session) Summary(w io.Writer, blocks ...*block.Block) error {
	if err := s.Provenance.Header(w); err != nil {
		return err
	}
	for _, blk := range blocks {
		if _, err := fmt.Fprintf(w, "\n%s\n", report.Block(blk)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the ledger.
func (s *Session) Close() error {
	if s == nil || s.Ledger == nil {
		return nil
	}
	return s.Ledger.Close()
}
