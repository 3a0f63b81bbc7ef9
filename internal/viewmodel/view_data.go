package viewmodel

import (
	"sync"

	"callcore/internal/domain"
)

// ParticipantViewDataStore caches host-supplied presentation data keyed by
// participant identifier.
type ParticipantViewDataStore struct {
	mu   sync.RWMutex
	data map[string]domain.ParticipantViewData
}

func NewParticipantViewDataStore() *ParticipantViewDataStore {
	return &ParticipantViewDataStore{data: map[string]domain.ParticipantViewData{}}
}

// Set stores data for userIdentifier and reports whether it replaced an entry.
func (s *ParticipantViewDataStore) Set(userIdentifier string, data domain.ParticipantViewData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.data[userIdentifier]
	s.data[userIdentifier] = data
	return existed
}

func (s *ParticipantViewDataStore) Get(userIdentifier string) (domain.ParticipantViewData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[userIdentifier]
	return data, ok
}

func (s *ParticipantViewDataStore) Remove(userIdentifiers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range userIdentifiers {
		delete(s.data, id)
	}
}

func (s *ParticipantViewDataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
