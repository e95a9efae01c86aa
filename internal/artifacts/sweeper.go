package artifacts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/lifecycle"
	"github.com/fileforge/fileforge/internal/metrics"
	"github.com/fileforge/fileforge/internal/storage"
)

// Sweeper periodically removes stored objects older than the configured
// maximum age. Age is measured from the object's last-modified time in
// the storage backend, so uploads and conversion results expire
// independently of each other.
type Sweeper struct {
	blobs    storage.System
	interval time.Duration
	maxAge   time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSweeper creates an expiry sweeper over the given blob backend.
// The metrics parameter may be nil when instrumentation is not wired,
// such as in the one-shot sweep command.
func NewSweeper(blobs storage.System, cfg *config.ExpiryConfig, m *metrics.Metrics, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		blobs:    blobs,
		interval: cfg.SweepIntervalDuration(),
		maxAge:   cfg.MaxAgeDuration(),
		metrics:  m,
		logger:   logger.With("system", "sweeper"),
	}
}

// Start launches the periodic sweep loop on the lifecycle coordinator.
// The loop runs until the coordinator's context is cancelled. Sweep
// failures are logged and the loop continues; a transient backend error
// must not stop expiry permanently.
func (s *Sweeper) Start(lc *lifecycle.Coordinator) {
	lc.OnStartup(func() {
		go s.run(lc.Context())
	})
}

func (s *Sweeper) run(ctx context.Context) {
	s.logger.Info("expiry sweep started", "interval", s.interval, "max_age", s.maxAge)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, time.Now()); err != nil {
				s.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

// Sweep removes all objects whose age at the given reference time
// exceeds the maximum, returning the number of objects deleted.
// Deletion is per-object: one failed delete is logged and skipped so
// the remaining expired objects are still removed.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	objects, err := s.blobs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list objects: %w", err)
	}

	cutoff := now.Add(-s.maxAge)
	deleted := 0

	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := s.blobs.Delete(ctx, obj.Key); err != nil {
			s.logger.Error("failed to delete expired object", "key", obj.Key, "error", err)
			continue
		}
		deleted++
		s.logger.Debug("deleted expired object", "key", obj.Key, "age", now.Sub(obj.LastModified))
	}

	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
		s.metrics.SweepDeleted.Add(float64(deleted))
	}

	if deleted > 0 {
		s.logger.Info("sweep completed", "deleted", deleted, "scanned", len(objects))
	}

	return deleted, nil
}
