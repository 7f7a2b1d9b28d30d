package ledger

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// Record is one stored spec: its type name, generated name, auto UID, and
// thin JSON document.
type Record struct {
	Kind         string
	Name         string
	UID          string
	Document     []byte
	RegisteredAt time.Time
}

// Key identifies a record within a repository.
type Key struct {
	Kind string
	Name string
}

func (r Record) key() Key { return Key{Kind: r.Kind, Name: r.Name} }

// Repository stores records. PutAll must apply every record or none.
type Repository interface {
	Get(ctx context.Context, kind, name string) (Record, bool, error)
	PutAll(ctx context.Context, records []Record) error
	List(ctx context.Context, kind string) ([]Record, error)
	Close() error
}

// MemoryRepository keeps records for the lifetime of the process.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[Key]Record
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[Key]Record)}
}

func (m *MemoryRepository) Get(_ context.Context, kind, name string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[Key{Kind: kind, Name: name}]
	return rec, ok, nil
}

func (m *MemoryRepository) PutAll(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		rec.Document = slices.Clone(rec.Document)
		m.records[rec.key()] = rec
	}
	return nil
}

// List returns the records of kind ordered by name. An empty kind lists
// everything ordered by kind then name.
func (m *MemoryRepository) List(_ context.Context, kind string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for key, rec := range m.records {
		if kind == "" || key.Kind == kind {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b Record) int {
		if c := strings.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (m *MemoryRepository) Close() error { return nil }
