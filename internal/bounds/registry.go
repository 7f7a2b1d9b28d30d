package bounds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"labbook/internal/catalog"
	"labbook/internal/faults"
	"labbook/internal/gemd"
	"labbook/internal/logging"
	"labbook/internal/textutil"
)

const (
	component     = "bounds"
	boundsKey     = "BOUNDS"
	lockRetryWait = 50 * time.Millisecond
)

type categorySet struct {
	Categories []string `json:"categories"`
}

// Registry is the process-wide store of allowed categories per attribute.
// Within a session the in-memory copy is authoritative; the file is only
// re-read while holding the lock for a write.
type Registry struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	bounds map[string][]string
	extra  map[string]json.RawMessage
}

// Open loads the registry stored at path. A missing file yields an empty
// registry that is created on first write. An empty path keeps the registry
// in memory only.
func Open(path string, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		path:   path,
		logger: logging.NewComponentLogger(logger, component),
		bounds: make(map[string][]string),
	}
	if path == "" {
		return r, nil
	}
	bounds, extra, err := readDocument(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "open", path, err)
	}
	r.bounds = bounds
	r.extra = extra
	r.logger.Debug("loaded bounds registry",
		logging.Int("attribute_count", len(bounds)),
		logging.String(logging.FieldPath, path))
	return r, nil
}

// Path returns the backing file, or an empty string for in-memory registries.
func (r *Registry) Path() string { return r.path }

// Categories returns a copy of the categories registered for attribute.
func (r *Registry) Categories(attribute string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cats, ok := r.bounds[attribute]
	if !ok {
		return nil, false
	}
	return slices.Clone(cats), true
}

// Contains reports whether value is registered for attribute. known is false
// when the attribute itself is absent.
func (r *Registry) Contains(attribute, value string) (registered, known bool) {
	value = textutil.NormalizeCategory(value)
	r.mu.RLock()
	defer r.mu.RUnlock()
	cats, ok := r.bounds[attribute]
	if !ok {
		return false, false
	}
	return slices.Contains(cats, value), true
}

// Attributes returns the registered attribute names in sorted order.
func (r *Registry) Attributes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.bounds))
	for name := range r.bounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a deep copy of every attribute and its categories.
func (r *Registry) Snapshot() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string, len(r.bounds))
	for name, cats := range r.bounds {
		out[name] = slices.Clone(cats)
	}
	return out
}

// Add appends value to the categories of an attribute that is already
// registered and persists the document. Adding a registered value is a
// no-op. Adding to an unregistered attribute is a configuration error.
func (r *Registry) Add(ctx context.Context, attribute, value string) error {
	value = textutil.NormalizeCategory(value)
	if value == "" {
		return faults.Wrap(faults.ErrValidation, component, "add", fmt.Sprintf("empty category for %q", attribute), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cats, ok := r.bounds[attribute]
	if !ok {
		return faults.Wrap(faults.ErrConfiguration, component, "add", fmt.Sprintf("attribute %q has no registered bounds", attribute), nil)
	}
	if slices.Contains(cats, value) {
		return nil
	}

	err := r.persist(ctx, func() {
		// Another session may have added it since load.
		if !slices.Contains(r.bounds[attribute], value) {
			r.bounds[attribute] = append(r.bounds[attribute], value)
		}
	})
	if err != nil {
		return err
	}
	r.logger.Info("category added",
		logging.Attribute(attribute),
		logging.String(logging.FieldValue, value),
		logging.String(logging.FieldPath, r.path))
	return nil
}

// Define registers a new attribute with the given categories. An attribute
// that already exists is left untouched and false is returned.
func (r *Registry) Define(ctx context.Context, attribute string, categories []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bounds[attribute]; ok {
		return false, nil
	}
	defined := false
	err := r.persist(ctx, func() {
		if _, ok := r.bounds[attribute]; ok {
			return
		}
		r.bounds[attribute] = normalizeAll(categories)
		defined = true
	})
	if err != nil {
		return false, err
	}
	return defined, nil
}

// Seed registers every categorical attribute of the catalog that the
// registry does not know yet, using the catalog categories, and writes the
// document once. It returns the names that were added.
func (r *Registry) Seed(ctx context.Context, cat *catalog.Catalog) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var missing []string
	for _, attr := range cat.Categorical() {
		if _, ok := r.bounds[attr.Name]; !ok {
			missing = append(missing, attr.Name)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	var added []string
	err := r.persist(ctx, func() {
		for _, name := range missing {
			// Another session may have defined it while we waited for the lock.
			if _, ok := r.bounds[name]; ok {
				continue
			}
			tmpl, _ := cat.AttributeTemplate(name)
			r.bounds[name] = normalizeAll(categoriesOf(tmpl.Bounds))
			added = append(added, name)
		}
	})
	if err != nil {
		return nil, err
	}
	if len(added) > 0 {
		r.logger.Info("seeded bounds registry from catalog",
			logging.Int("attribute_count", len(added)),
			logging.String(logging.FieldPath, r.path))
	}
	return added, nil
}

// persist applies mutate and writes the document. For file-backed registries
// it holds the cross-process lock, merges categories other sessions wrote
// since load, applies mutate, then saves. r.mu must be held.
func (r *Registry) persist(ctx context.Context, mutate func()) error {
	if r.path == "" {
		mutate()
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return faults.Wrap(faults.ErrConfiguration, component, "persist", "create bounds directory", err)
	}
	lock := flock.New(r.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, component, "persist", "acquire bounds lock", err)
	}
	if !locked {
		return faults.Wrap(faults.ErrConfiguration, component, "persist", "bounds lock not acquired", ctx.Err())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release bounds lock",
				logging.String(logging.FieldEventType, "bounds_unlock_failed"),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the .lock file if no other session is running"),
				logging.String(logging.FieldImpact, "later writes may wait for the stale lock"))
		}
	}()

	disk, extra, err := readDocument(r.path)
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, component, "persist", "reload bounds before write", err)
	}
	previous := r.cloneBounds()
	merge(r.bounds, disk)
	if extra != nil {
		r.extra = extra
	}
	mutate()

	if err := r.save(); err != nil {
		r.bounds = previous
		return faults.Wrap(faults.ErrConfiguration, component, "persist", r.path, err)
	}
	return nil
}

func (r *Registry) cloneBounds() map[string][]string {
	out := make(map[string][]string, len(r.bounds))
	for name, cats := range r.bounds {
		out[name] = slices.Clone(cats)
	}
	return out
}

// save writes the registry to disk atomically.
func (r *Registry) save() error {
	doc := make(map[string]any, len(r.extra)+1)
	for key, raw := range r.extra {
		doc[key] = raw
	}
	sets := make(map[string]categorySet, len(r.bounds))
	for name, cats := range r.bounds {
		sets[name] = categorySet{Categories: cats}
	}
	doc[boundsKey] = sets

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bounds: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// readDocument parses the bounds file. Top-level keys other than BOUNDS are
// returned untouched so they survive a rewrite.
func readDocument(path string) (map[string][]string, map[string]json.RawMessage, error) {
	bounds := make(map[string][]string)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return bounds, nil, nil
		}
		return nil, nil, fmt.Errorf("read bounds file: %w", err)
	}
	if len(data) == 0 {
		return bounds, nil, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, nil, fmt.Errorf("parse bounds file: %w", err)
	}
	raw, ok := top[boundsKey]
	delete(top, boundsKey)
	if !ok {
		return bounds, top, nil
	}

	var sets map[string]categorySet
	if err := json.Unmarshal(raw, &sets); err != nil {
		return nil, nil, fmt.Errorf("parse %s section: %w", boundsKey, err)
	}
	for name, set := range sets {
		bounds[name] = normalizeAll(set.Categories)
	}
	return bounds, top, nil
}

// merge appends categories present in src but missing from dst, keeping the
// order dst already has.
func merge(dst, src map[string][]string) {
	for name, cats := range src {
		existing, ok := dst[name]
		if !ok {
			dst[name] = slices.Clone(cats)
			continue
		}
		for _, cat := range cats {
			if !slices.Contains(existing, cat) {
				existing = append(existing, cat)
			}
		}
		dst[name] = existing
	}
}

func normalizeAll(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, cat := range categories {
		cat = textutil.NormalizeCategory(cat)
		if cat == "" || slices.Contains(out, cat) {
			continue
		}
		out = append(out, cat)
	}
	return out
}

func categoriesOf(b gemd.Bounds) []string {
	if cb, ok := b.(gemd.CategoricalBounds); ok {
		return cb.Categories
	}
	return nil
}
