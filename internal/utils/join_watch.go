package utils

import (
	"sync"
	"time"
)

// JoinWatch remembers when watched accounts joined. Entries are never
// evicted.
type JoinWatch struct {
	mu     sync.Mutex
	window time.Duration
	joins  map[string]time.Time
}

func NewJoinWatch(window time.Duration) *JoinWatch {
	return &JoinWatch{window: window, joins: make(map[string]time.Time)}
}

func (w *JoinWatch) Mark(id string, at time.Time) {
	w.mu.Lock()
	w.joins[id] = at
	w.mu.Unlock()
}

// Within reports whether id joined less than one window before at.
func (w *JoinWatch) Within(id string, at time.Time) bool {
	w.mu.Lock()
	joined, ok := w.joins[id]
	w.mu.Unlock()
	if !ok {
		return false
	}
	return at.Sub(joined) < w.window
}

func (w *JoinWatch) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.joins)
}
