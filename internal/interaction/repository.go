// internal/interaction/repository.go

package interaction

import (
	"sort"
	"sync"
)

// Repository holds the in-memory interaction collection.
type Repository interface {
	Insert(it *Interaction)
	Get(id string) (*Interaction, bool)
	ListByLead(leadID string) []*Interaction
	Delete(id string) bool
	DeleteAllForLead(leadID string) int
	ReplaceAll(items []Interaction)
	Snapshot() []Interaction
}

type memoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Interaction
}

func NewMemoryRepository() Repository {
	return &memoryRepository{items: make(map[string]*Interaction)}
}

func (r *memoryRepository) Insert(it *Interaction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *it
	r.items[it.ID] = &cp
}

func (r *memoryRepository) Get(id string) (*Interaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, false
	}
	cp := *it
	return &cp, true
}

// ListByLead returns the lead's interactions newest-first. Storage has
// no required order; the consumer-facing sort happens here.
func (r *memoryRepository) ListByLead(leadID string) []*Interaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Interaction, 0)
	for _, it := range r.items {
		if it.LeadID != leadID {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return out
}

func (r *memoryRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	return true
}

func (r *memoryRepository) DeleteAllForLead(leadID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, it := range r.items {
		if it.LeadID == leadID {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

func (r *memoryRepository) ReplaceAll(items []Interaction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]*Interaction, len(items))
	for i := range items {
		cp := items[i]
		r.items[cp.ID] = &cp
	}
}

func (r *memoryRepository) Snapshot() []Interaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Interaction, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
