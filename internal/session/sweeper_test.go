package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSweeper_RemovesExpired(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewSweeper(store, 24*time.Hour, time.Hour, nil)

	oldToken, _ := store.Create()
	_, _ = store.StoreFile(oldToken, "a.csv", strings.NewReader("x"))
	youngToken, _ := store.Create()
	_, _ = store.StoreFile(youngToken, "b.csv", strings.NewReader("y"))

	// Age the first session past the TTL.
	oldDir := filepath.Join(store.Root(), oldToken)
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldDir, stale, stale); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	removed := sweeper.SweepOnce(time.Now())
	if removed != 1 {
		t.Fatalf("SweepOnce() = %d, want 1", removed)
	}

	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Errorf("expired session dir still present: %v", err)
	}
	if files := store.ListFiles(youngToken); len(files) != 1 {
		t.Errorf("young session was touched: files = %v", files)
	}
}

func TestSweeper_KeepsFreshSessions(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewSweeper(store, 24*time.Hour, time.Hour, nil)

	token, _ := store.Create()
	_, _ = store.StoreFile(token, "a.csv", strings.NewReader("x"))

	if removed := sweeper.SweepOnce(time.Now()); removed != 0 {
		t.Fatalf("SweepOnce() = %d, want 0", removed)
	}
	if files := store.ListFiles(token); len(files) != 1 {
		t.Errorf("fresh session was swept: files = %v", files)
	}
}

func TestSweeper_SkipsPlainFiles(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewSweeper(store, time.Hour, time.Hour, nil)

	// A stray file at the root must be ignored, not deleted.
	stray := filepath.Join(store.Root(), "stray.csv")
	if err := os.WriteFile(stray, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	_ = os.Chtimes(stray, old, old)

	if removed := sweeper.SweepOnce(time.Now()); removed != 0 {
		t.Fatalf("SweepOnce() = %d, want 0", removed)
	}
	if _, err := os.Stat(stray); err != nil {
		t.Errorf("stray file was removed: %v", err)
	}
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewSweeper(store, time.Hour, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}
