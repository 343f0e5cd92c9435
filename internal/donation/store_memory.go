package donation

import (
	"context"
	"sync"

	"givebridge/pkg/platform/sentinel"
	"givebridge/pkg/requestcontext"
)

// InMemoryStore keeps donation records in a mutex-guarded map. It is the
// default backend for development and the reference implementation the
// postgres and redis stores are tested against.
type InMemoryStore struct {
	mu        sync.RWMutex
	donations map[string]*Donation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{donations: make(map[string]*Donation)}
}

func (s *InMemoryStore) Create(_ context.Context, d *Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.donations[d.ID]; exists {
		return sentinel.ErrConflict
	}
	s.donations[d.ID] = d.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return d.Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context, status Status) ([]*Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Donation, 0, len(s.donations))
	for _, d := range s.donations {
		if status != "" && d.Status != status {
			continue
		}
		out = append(out, d.Clone())
	}
	return out, nil
}

func (s *InMemoryStore) CompareAndSwapStatus(ctx context.Context, id string, expected, next Status, patch Patch) (*Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if d.Status != expected {
		return nil, sentinel.ErrConflict
	}
	d.Status = next
	ApplyPatch(d, patch)
	return d.Clone(), nil
}

func (s *InMemoryStore) ApplyConfirmation(ctx context.Context, id string, party Party, verificationCode string) (*Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := ConfirmRecord(d, party, verificationCode, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	return d.Clone(), nil
}
