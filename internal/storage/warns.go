package storage

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// WarnDateLayout renders DD/MM/YYYY HH:MM:SS.
const WarnDateLayout = "02/01/2006 15:04:05"

var (
	ErrNoWarns   = errors.New("user has no warns")
	ErrWarnIndex = errors.New("warn index out of range")
)

type Warn struct {
	Moderator int64  `json:"moderator"`
	Reason    string `json:"reason"`
	Date      string `json:"date"`
}

func NewWarn(moderatorID, reason string, at time.Time) (Warn, error) {
	id, err := strconv.ParseInt(moderatorID, 10, 64)
	if err != nil {
		return Warn{}, fmt.Errorf("moderator id %q: %w", moderatorID, err)
	}
	return Warn{Moderator: id, Reason: reason, Date: at.Format(WarnDateLayout)}, nil
}

func (w Warn) ModeratorID() string {
	return strconv.FormatInt(w.Moderator, 10)
}

// Warns is the persistent warn log keyed by user id.
type Warns struct {
	mu      sync.RWMutex
	path    string
	entries map[string][]Warn
}

func OpenWarns(path string) (*Warns, error) {
	store := &Warns{path: path, entries: make(map[string][]Warn)}
	if err := loadJSON(path, &store.entries, map[string][]Warn{}); err != nil {
		return nil, err
	}
	if store.entries == nil {
		store.entries = make(map[string][]Warn)
	}
	return store, nil
}

// Add appends a warn and returns the user's new total.
func (s *Warns) Add(userID string, warn Warn) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = append(s.entries[userID], warn)
	if err := writeJSON(s.path, s.entries); err != nil {
		return 0, err
	}
	return len(s.entries[userID]), nil
}

// Remove deletes the warn at the 1-based index, shifting later warns down.
// It returns the removed warn and how many remain.
func (s *Warns) Remove(userID string, index int) (Warn, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.entries[userID]
	if len(list) == 0 {
		return Warn{}, 0, ErrNoWarns
	}
	if index < 1 || index > len(list) {
		return Warn{}, len(list), fmt.Errorf("%w: %d not in 1..%d", ErrWarnIndex, index, len(list))
	}
	removed := list[index-1]
	updated := make([]Warn, 0, len(list)-1)
	updated = append(updated, list[:index-1]...)
	updated = append(updated, list[index:]...)
	s.entries[userID] = updated
	if err := writeJSON(s.path, s.entries); err != nil {
		s.entries[userID] = list
		return Warn{}, len(list), err
	}
	return removed, len(updated), nil
}

func (s *Warns) List(userID string) []Warn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.entries[userID]
	out := make([]Warn, len(list))
	copy(out, list)
	return out
}

func (s *Warns) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[userID])
}

func (s *Warns) Path() string {
	return s.path
}
