package utils

import (
	"sync"
	"time"
)

// SlidingWindow counts hits inside a trailing time span. A hit exactly one
// window old is still counted; anything older is evicted.
type SlidingWindow struct {
	mu     sync.Mutex
	window time.Duration
	hits   []time.Time
}

func NewSlidingWindow(window time.Duration) *SlidingWindow {
	return &SlidingWindow{window: window}
}

func (w *SlidingWindow) Add(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.evict(now)
	w.hits = append(w.hits, now)
	return len(w.hits)
}

func (w *SlidingWindow) Count(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.evict(now)
	return len(w.hits)
}

func (w *SlidingWindow) evict(now time.Time) {
	cutoff := now.Add(-w.window)
	idx := 0
	for _, hit := range w.hits {
		if !hit.Before(cutoff) {
			break
		}
		idx++
	}
	w.hits = w.hits[idx:]
}

// WindowTracker keeps one SlidingWindow per subject.
type WindowTracker struct {
	mu      sync.Mutex
	window  time.Duration
	windows map[string]*SlidingWindow
}

func NewWindowTracker(window time.Duration) *WindowTracker {
	return &WindowTracker{window: window, windows: make(map[string]*SlidingWindow)}
}

// Record appends now to the subject's window and returns how many events
// remain inside it.
func (t *WindowTracker) Record(subject string, now time.Time) int {
	return t.getWindow(subject).Add(now)
}

func (t *WindowTracker) Count(subject string, now time.Time) int {
	t.mu.Lock()
	window := t.windows[subject]
	t.mu.Unlock()
	if window == nil {
		return 0
	}
	return window.Count(now)
}

func (t *WindowTracker) Window() time.Duration {
	return t.window
}

func (t *WindowTracker) getWindow(subject string) *SlidingWindow {
	t.mu.Lock()
	defer t.mu.Unlock()
	window := t.windows[subject]
	if window == nil {
		window = NewSlidingWindow(t.window)
		t.windows[subject] = window
	}
	return window
}
