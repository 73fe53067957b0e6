package store

import (
	"context"
	"sync"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
)

type memoryEntry struct {
	mu  sync.Mutex
	rec *connectfour.GameRecord
}

type MemoryStore struct {
	mu    sync.Mutex
	games map[string]*memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Insert(_ context.Context, rec *connectfour.GameRecord, confirm Confirm) error {
	s.mu.Lock()
	if _, exists := s.games[rec.Reference]; exists {
		s.mu.Unlock()
		return connectfour.ErrDuplicateReference
	}
	entry := &memoryEntry{}
	entry.mu.Lock()
	s.games[rec.Reference] = entry
	s.mu.Unlock()
	defer entry.mu.Unlock()

	if err := confirm(rec.Clone()); err != nil {
		s.remove(rec.Reference, entry)
		return err
	}
	entry.rec = rec.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, reference string) (*connectfour.GameRecord, error) {
	entry, err := s.lock(reference)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	return entry.rec.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, reference string, mutate Confirm) (*connectfour.GameRecord, error) {
	entry, err := s.lock(reference)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	working := entry.rec.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	entry.rec = working
	return working.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, reference string, confirm Confirm) (*connectfour.GameRecord, error) {
	entry, err := s.lock(reference)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	removed := entry.rec.Clone()
	if err := confirm(removed.Clone()); err != nil {
		return nil, err
	}
	entry.rec = nil
	s.remove(reference, entry)
	return removed, nil
}

func (s *MemoryStore) Moves(_ context.Context, reference string, offset, limit int) ([]connectfour.Move, int64, error) {
	entry, err := s.lock(reference)
	if err != nil {
		return nil, 0, err
	}
	defer entry.mu.Unlock()
	return page(entry.rec.Moves, offset, limit), int64(len(entry.rec.Moves)), nil
}

func (s *MemoryStore) OpenStakes(_ context.Context) (uint64, error) {
	s.mu.Lock()
	entries := make([]*memoryEntry, 0, len(s.games))
	for _, entry := range s.games {
		entries = append(entries, entry)
	}
	s.mu.Unlock()

	var total uint64
	for _, entry := range entries {
		entry.mu.Lock()
		if entry.rec != nil {
			total += openStake(entry.rec)
		}
		entry.mu.Unlock()
	}
	return total, nil
}

// lock returns the entry for reference with its mutex held.
func (s *MemoryStore) lock(reference string) (*memoryEntry, error) {
	s.mu.Lock()
	entry, ok := s.games[reference]
	s.mu.Unlock()
	if !ok {
		return nil, connectfour.ErrGameNotFound
	}

	entry.mu.Lock()
	if entry.rec == nil {
		entry.mu.Unlock()
		return nil, connectfour.ErrGameNotFound
	}
	return entry, nil
}

func (s *MemoryStore) remove(reference string, entry *memoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games[reference] == entry {
		delete(s.games, reference)
	}
}
