package utils

import (
	"testing"
	"time"
)

func TestJoinWatch(t *testing.T) {
	watch := NewJoinWatch(120 * time.Second)
	now := time.Now()
	if watch.Within("bot", now) {
		t.Fatalf("unknown id should not be watched")
	}
	watch.Mark("bot", now)
	if !watch.Within("bot", now.Add(119*time.Second)) {
		t.Fatalf("expected id to be inside the watch window")
	}
	if watch.Within("bot", now.Add(120*time.Second)) {
		t.Fatalf("expected window to be exclusive at its end")
	}
	if watch.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", watch.Len())
	}
}
