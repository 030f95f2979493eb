package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlidingWindowAdd(t *testing.T) {
	window := NewSlidingWindow(2 * time.Second)
	now := time.Now()
	if count := window.Add(now); count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}
	window.Add(now.Add(500 * time.Millisecond))
	if count := window.Count(now.Add(1 * time.Second)); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
	if count := window.Count(now.Add(3 * time.Second)); count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestSlidingWindowBoundaryIsExact(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	window := NewSlidingWindow(4 * time.Second)

	window.Add(base)
	require.Equal(t, 2, window.Add(base.Add(4*time.Second)), "an entry exactly one window old still counts")
	require.Equal(t, 2, window.Add(base.Add(4*time.Second+time.Nanosecond)), "an entry older than the window is evicted")
}

func TestWindowTrackerSubjectsAreIndependent(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	tracker := NewWindowTracker(8 * time.Second)

	require.Equal(t, 1, tracker.Record("a", base))
	require.Equal(t, 1, tracker.Record("b", base.Add(time.Second)))
	require.Equal(t, 2, tracker.Record("a", base.Add(5*time.Second)))
	require.Equal(t, 0, tracker.Count("missing", base))
}

func TestWindowTrackerOutsideWindow(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	tracker := NewWindowTracker(8 * time.Second)

	tracker.Record("a", base)
	require.Equal(t, 1, tracker.Record("a", base.Add(10*time.Second)))
}

func TestWindowTrackerConcurrentRecords(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tracker := NewWindowTracker(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Record("same", now)
		}()
	}
	wg.Wait()

	require.Equal(t, 50, tracker.Count("same", now))
}
