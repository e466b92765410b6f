package memory

import (
	"context"
	"sync"
)

// Repository keeps values in a map. It stands in for the SQLite store in
// tests and when no database path is configured.
type Repository struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

func NewRepository() *Repository {
	return &Repository{values: make(map[string]string)}
}

func (r *Repository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *Repository) SetMany(_ context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		r.values[k] = v
	}
	r.writes++
	return nil
}

// Put stores a single raw value.
func (r *Repository) Put(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
}

// Writes reports how many SetMany calls have completed.
func (r *Repository) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}
