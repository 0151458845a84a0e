// Package dataset owns the normalized row collections loaded from
// inspection sources. Datasets are addressed by opaque identifiers handed
// out at load time and passed explicitly to every operation; there is no
// ambient global catalogue.
package dataset

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"cargocli/pkg/contracts/domain"
)

// Dataset is the ordered row sequence for one ingested source. A dataset
// is exclusively owned by one logical session: edits replace values in
// place and callers must serialize writes themselves.
type Dataset struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Rows     []domain.NormalizedRow `json:"rows"`
	LoadedAt time.Time              `json:"loaded_at"`
}

// Store is the explicitly owned collection of datasets. The map itself is
// guarded so handles can be resolved from concurrent readers; row mutation
// stays single-writer per dataset by contract.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	order    []string
}

// NewStore creates an empty dataset store.
func NewStore() *Store {
	return &Store{datasets: make(map[string]*Dataset)}
}

// Add registers the rows of a newly ingested source and returns its
// dataset with a fresh opaque identifier.
func (s *Store) Add(name string, rows []domain.NormalizedRow) *Dataset {
	d := &Dataset{
		ID:       uuid.New().String(),
		Name:     name,
		Rows:     rows,
		LoadedAt: time.Now(),
	}

	s.mu.Lock()
	s.datasets[d.ID] = d
	s.order = append(s.order, d.ID)
	s.mu.Unlock()
	return d
}

// Get resolves a dataset handle.
func (s *Store) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("dataset %s not found", id)
	}
	return d, nil
}

// List returns all datasets in load order.
func (s *Store) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Dataset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.datasets[id])
	}
	return out
}

// Remove discards a dataset; its rows are destroyed with it.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return false
	}
	delete(s.datasets, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
