package storage

import (
	"sync"
)

// TicketMessages maps prompt message ids to ticket template ids.
type TicketMessages struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

func OpenTicketMessages(path string) (*TicketMessages, error) {
	store := &TicketMessages{path: path, entries: make(map[string]string)}
	if err := loadJSON(path, &store.entries, map[string]string{}); err != nil {
		return nil, err
	}
	if store.entries == nil {
		store.entries = make(map[string]string)
	}
	return store, nil
}

// Put records the mapping and persists it before returning.
func (s *TicketMessages) Put(messageID, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[messageID] = templateID
	return writeJSON(s.path, s.entries)
}

func (s *TicketMessages) Get(messageID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	templateID, ok := s.entries[messageID]
	return templateID, ok
}

func (s *TicketMessages) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *TicketMessages) Path() string {
	return s.path
}
