// internal/lead/repository.go

package lead

import (
	"sort"
	"sync"
)

// Repository holds the in-memory lead collection. The collection is the
// session's working copy; durability goes through the sync coordinator.
type Repository interface {
	Insert(l *Lead)
	Get(id string) (*Lead, bool)
	List() []*Lead
	Update(l *Lead) bool
	Delete(id string) bool
	ReplaceAll(leads []Lead)
	Snapshot() []Lead
}

type memoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

func NewMemoryRepository() Repository {
	return &memoryRepository{leads: make(map[string]*Lead)}
}

func (r *memoryRepository) Insert(l *Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *l
	r.leads[l.ID] = &cp
}

// Get returns a copy so callers can mutate freely and commit via Update.
func (r *memoryRepository) Get(id string) (*Lead, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, false
	}
	cp := *l
	return &cp, true
}

func (r *memoryRepository) List() []*Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.leads))
	for _, l := range r.leads {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memoryRepository) Update(l *Lead) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[l.ID]; !ok {
		return false
	}
	cp := *l
	r.leads[l.ID] = &cp
	return true
}

func (r *memoryRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return false
	}
	delete(r.leads, id)
	return true
}

// ReplaceAll swaps the whole collection, used when a remote snapshot lands.
func (r *memoryRepository) ReplaceAll(leads []Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leads = make(map[string]*Lead, len(leads))
	for i := range leads {
		cp := leads[i]
		r.leads[cp.ID] = &cp
	}
}

// Snapshot returns the collection as values, ordered by creation time,
// for persistence through the sync coordinator.
func (r *memoryRepository) Snapshot() []Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
