package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically removes stored reports older than the store TTL. It
// catches files whose one-shot deletion was lost to a restart.
type Sweeper struct {
	dir  string
	ttl  time.Duration
	now  func() time.Time
	cron *cron.Cron

	onSwept func(removed int)
}

func NewSweeper(dir string, ttl time.Duration) *Sweeper {
	return &Sweeper{
		dir:  dir,
		ttl:  ttl,
		now:  time.Now,
		cron: cron.New(),
	}
}

// Start registers the sweep on schedule (standard cron spec or a descriptor
// such as "@every 1m") and starts the cron runner.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.sweepAndLog); err != nil {
		return fmt.Errorf("failed to schedule export sweep: %w", err)
	}
	s.cron.Start()

	slog.Info("export sweeper started",
		"dir", s.dir,
		"schedule", schedule,
		"ttl", s.ttl.String())
	return nil
}

// OnSwept registers fn to receive the count of every scheduled sweep that
// removed at least one file. Call before Start.
func (s *Sweeper) OnSwept(fn func(removed int)) {
	s.onSwept = fn
}

// Stop halts the runner and waits for a sweep in progress.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweepAndLog() {
	removed, err := s.Sweep()
	if err != nil {
		slog.Error("export sweep failed", "dir", s.dir, "error", err)
		return
	}
	if removed > 0 {
		slog.Info("export sweep removed expired reports", "count", removed)
		if s.onSwept != nil {
			s.onSwept(removed)
		}
	}
}

// Sweep deletes expired report files and returns how many were removed.
// A missing directory is not an error.
func (s *Sweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read export directory: %w", err)
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove expired report", "path", path, "error", err)
			continue
		}
		removed++
	}

	return removed, nil
}
