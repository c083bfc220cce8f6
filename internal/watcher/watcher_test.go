package watcher

import (
	"io"
	"sync"
	"testing"
	"time"

	"sift/internal/logging"
)

type fakeInvalidator struct {
	mu     sync.Mutex
	forgot []string
}

func (f *fakeInvalidator) Forget(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgot = append(f.forgot, path)
	return nil
}

func (f *fakeInvalidator) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.forgot...)
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
}

func TestDebouncedFlushBatchesMarks(t *testing.T) {
	inv := &fakeInvalidator{}

	flushed := make(chan []string, 1)
	w, err := New(Config{DebounceMs: 20}, inv, testLogger(), func(paths []string) {
		flushed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// Marks inside the debounce window coalesce into one batch, repeats
	// deduplicate.
	w.mark("/roots/a/u1.json")
	w.mark("/roots/a/u2.json")
	w.mark("/roots/a/u1.json")

	select {
	case batch := <-flushed:
		if len(batch) != 2 {
			t.Fatalf("batch = %v, want 2 unique paths", batch)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("flush never fired")
	}

	if got := inv.paths(); len(got) != 2 {
		t.Errorf("forgot %v, want 2 unique paths", got)
	}
}

func TestFlushWithNothingPendingIsSilent(t *testing.T) {
	inv := &fakeInvalidator{}
	w, err := New(Config{DebounceMs: 20}, inv, testLogger(), func([]string) {
		t.Error("onFlush called with empty batch")
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.flush()

	if got := inv.paths(); len(got) != 0 {
		t.Errorf("forgot %v, want nothing", got)
	}
}

func TestMarkRearmsTimer(t *testing.T) {
	inv := &fakeInvalidator{}

	flushes := make(chan []string, 4)
	w, err := New(Config{DebounceMs: 50}, inv, testLogger(), func(paths []string) {
		flushes <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.mark("/roots/a/u1.json")
	time.Sleep(10 * time.Millisecond)
	w.mark("/roots/a/u2.json")

	select {
	case batch := <-flushes:
		// Both marks landed in the same (re-armed) window.
		if len(batch) != 2 {
			t.Fatalf("batch = %v, want both paths in one flush", batch)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("flush never fired")
	}
}
