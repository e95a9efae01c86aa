package main

import (
	"fmt"
	"log/slog"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/lifecycle"
	"github.com/fileforge/fileforge/internal/metrics"
	"github.com/fileforge/fileforge/internal/storage"
	"github.com/fileforge/fileforge/pkg/logging"
)

// Runtime holds the infrastructure subsystems shared by every domain
// system: lifecycle coordination, logging, blob storage, and metrics.
type Runtime struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Metrics   *metrics.Metrics
}

// NewRuntime initializes infrastructure from configuration.
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	logger := logging.New(&cfg.Logging)

	blobs, err := storage.New(&cfg.Storage, cfg.Expiry.BackstopAgeDuration(), logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Runtime{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Storage:   blobs,
		Metrics:   metrics.New(),
	}, nil
}

// Start begins the infrastructure subsystems.
func (r *Runtime) Start() error {
	if err := r.Storage.Start(r.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
