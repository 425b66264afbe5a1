package storage

import (
	"slices"

	"github.com/grachmannico95/txengine/internal/domain"
)

// MemoryStore is an in-memory domain.TransactionLog. It has a single writer,
// the ledger that owns it, and is not safe for concurrent use.
type MemoryStore struct {
	entries  map[uint32]*domain.TransactionEntry
	disputed map[uint32]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[uint32]*domain.TransactionEntry),
		disputed: make(map[uint32]struct{}),
	}
}

func (s *MemoryStore) Insert(entry domain.TransactionEntry) error {
	if _, exists := s.entries[entry.ID]; exists {
		return domain.ErrDuplicateTransaction
	}

	if entry.DisputeState == "" {
		entry.DisputeState = domain.DisputeStateClean
	}

	s.entries[entry.ID] = &entry
	s.track(&entry)

	return nil
}

// Get returns the stored entry. Callers that change DisputeState must call
// SetDisputeState so the disputed index stays in sync.
func (s *MemoryStore) Get(id uint32) (*domain.TransactionEntry, bool) {
	entry, exists := s.entries[id]
	return entry, exists
}

func (s *MemoryStore) SetDisputeState(id uint32, state domain.DisputeState) error {
	entry, exists := s.entries[id]
	if !exists {
		return domain.ErrTransactionNotFound
	}

	entry.DisputeState = state
	s.track(entry)

	return nil
}

func (s *MemoryStore) Disputed() []uint32 {
	ids := make([]uint32, 0, len(s.disputed))
	for id := range s.disputed {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

func (s *MemoryStore) Len() int {
	return len(s.entries)
}

func (s *MemoryStore) track(entry *domain.TransactionEntry) {
	if entry.DisputeState == domain.DisputeStateDisputed {
		s.disputed[entry.ID] = struct{}{}
		return
	}
	delete(s.disputed, entry.ID)
}
