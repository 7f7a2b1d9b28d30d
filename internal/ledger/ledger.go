package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"labbook/internal/faults"
	"labbook/internal/gemd"
	"labbook/internal/logging"
)

const component = "ledger"

// DuplicatePolicy decides what happens when a generated name is registered
// twice for the same kind.
type DuplicatePolicy string

const (
	RejectDuplicates    DuplicatePolicy = "reject"
	OverwriteDuplicates DuplicatePolicy = "overwrite"
)

// ParseDuplicatePolicy maps a configuration value to a policy.
func ParseDuplicatePolicy(value string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case RejectDuplicates, OverwriteDuplicates:
		return p, nil
	case "":
		return RejectDuplicates, nil
	default:
		return "", faults.Wrap(faults.ErrConfiguration, component, "policy", fmt.Sprintf("unknown duplicate policy %q", value), nil)
	}
}

// Ledger registers specs under their generated names and keeps the live
// objects of the current session for lookup.
type Ledger struct {
	repo   Repository
	policy DuplicatePolicy
	logger *slog.Logger

	mu   sync.Mutex
	live map[Key]gemd.Object
	now  func() time.Time
}

// New wraps repo. An empty policy rejects duplicates.
func New(repo Repository, policy DuplicatePolicy, logger *slog.Logger) *Ledger {
	if policy == "" {
		policy = RejectDuplicates
	}
	return &Ledger{
		repo:   repo,
		policy: policy,
		logger: logging.NewComponentLogger(logger, component),
		live:   make(map[Key]gemd.Object),
		now:    time.Now,
	}
}

func (l *Ledger) Policy() DuplicatePolicy { return l.policy }

// ScopedName is the stored name of an object registered in scope.
func ScopedName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + " / " + name
}

// Register stores every object under its type name and name. Under the
// reject policy nothing is stored when any name is already taken or
// repeated within the call.
func (l *Ledger) Register(ctx context.Context, objs ...gemd.Object) error {
	return l.RegisterIn(ctx, "", objs...)
}

// RegisterIn is Register for objects whose names only need to be unique
// within scope, such as ingredient specs of one process.
func (l *Ledger) RegisterIn(ctx context.Context, scope string, objs ...gemd.Object) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]Record, 0, len(objs))
	seen := make(map[Key]struct{}, len(objs))
	var overwritten []Key
	for _, obj := range objs {
		base := obj.Base()
		if strings.TrimSpace(base.Name) == "" {
			return faults.Wrap(faults.ErrValidation, component, "register", fmt.Sprintf("%s without a name", obj.TypeName()), nil)
		}
		key := Key{Kind: obj.TypeName(), Name: ScopedName(scope, base.Name)}
		if _, dup := seen[key]; dup {
			return faults.Wrap(faults.ErrDuplicate, component, "register",
				fmt.Sprintf("%s %q appears twice in one registration", key.Kind, key.Name), nil)
		}
		seen[key] = struct{}{}

		_, exists, err := l.repo.Get(ctx, key.Kind, key.Name)
		if err != nil {
			return faults.Wrap(faults.ErrConfiguration, component, "register", "lookup existing record", err)
		}
		if exists {
			if l.policy == RejectDuplicates {
				return faults.Wrap(faults.ErrDuplicate, component, "register",
					fmt.Sprintf("%s %q is already registered", key.Kind, key.Name), nil)
			}
			overwritten = append(overwritten, key)
		}

		thin, err := gemd.Thin(obj)
		if err != nil {
			return faults.Wrap(faults.ErrConstruction, component, "register", key.Name, err)
		}
		doc, err := json.Marshal(thin)
		if err != nil {
			return faults.Wrap(faults.ErrConstruction, component, "register", key.Name, err)
		}
		records = append(records, Record{
			Kind:         key.Kind,
			Name:         key.Name,
			UID:          base.UIDs.Auto(),
			Document:     doc,
			RegisteredAt: l.now(),
		})
	}

	if err := l.repo.PutAll(ctx, records); err != nil {
		return faults.Wrap(faults.ErrConfiguration, component, "register", "store records", err)
	}
	for _, obj := range objs {
		l.live[Key{Kind: obj.TypeName(), Name: ScopedName(scope, obj.Base().Name)}] = obj
	}

	logger := logging.WithContext(ctx, l.logger)
	for _, key := range overwritten {
		logging.WarnWithContext(logger, "generated name overwritten", "ledger_duplicate_overwrite",
			logging.Entity(key.Name),
			logging.String("kind", key.Kind),
			logging.String(logging.FieldPolicy, string(l.policy)),
			logging.String(logging.FieldErrorHint, "give the entry a distinct name to keep both specs"),
			logging.String(logging.FieldImpact, "the earlier spec is replaced"))
	}
	logger.Debug("specs registered", logging.Int("count", len(records)))
	return nil
}

// Lookup returns an object registered during this session. Scoped objects
// are found under ScopedName.
func (l *Ledger) Lookup(kind, name string) (gemd.Object, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	obj, ok := l.live[Key{Kind: kind, Name: name}]
	return obj, ok
}

// Record returns the stored record for kind and name, including records
// written by earlier sessions.
func (l *Ledger) Record(ctx context.Context, kind, name string) (Record, error) {
	rec, ok, err := l.repo.Get(ctx, kind, name)
	if err != nil {
		return Record{}, faults.Wrap(faults.ErrConfiguration, component, "record", "lookup record", err)
	}
	if !ok {
		return Record{}, faults.Wrap(faults.ErrNotFound, component, "record", fmt.Sprintf("%s %q", kind, name), nil)
	}
	return rec, nil
}

// Records lists stored records of kind, or all records when kind is empty.
func (l *Ledger) Records(ctx context.Context, kind string) ([]Record, error) {
	recs, err := l.repo.List(ctx, kind)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "records", "list records", err)
	}
	return recs, nil
}

// Close releases the repository.
func (l *Ledger) Close() error {
	return l.repo.Close()
}
