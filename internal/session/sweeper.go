package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sweeper periodically deletes session directories whose mtime is older
// than the TTL. It holds no locks against concurrent readers: a render
// racing a deletion degrades to the store's ErrNotFound path.
type Sweeper struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a sweeper over the store's root.
func NewSweeper(store *Store, ttl, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{store: store, ttl: ttl, interval: interval, logger: logger}
}

// Run loops until ctx is cancelled, sweeping once immediately and then on
// every interval tick. Errors never stop the loop.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("session sweeper started",
		"root", s.store.Root(),
		"ttl", s.ttl,
		"interval", s.interval,
	)

	s.SweepOnce(time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(time.Now())
		}
	}
}

// SweepOnce removes every session directory older than the TTL relative to
// now and returns how many were removed. Per-directory failures are logged
// and skipped so one bad directory never aborts the rest of the pass.
func (s *Sweeper) SweepOnce(now time.Time) int {
	entries, err := os.ReadDir(s.store.Root())
	if err != nil {
		s.logger.Warn("sweep: read upload root", "error", err)
		return 0
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			// Raced a concurrent deletion; nothing to do.
			continue
		}
		if now.Sub(info.ModTime()) <= s.ttl {
			continue
		}

		dir := filepath.Join(s.store.Root(), e.Name())
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("sweep: remove session dir", "dir", e.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("sweep: expired sessions removed", "count", removed)
	}
	return removed
}
