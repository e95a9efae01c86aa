// Command sweep runs a single expiry pass against the configured
// storage backend and exits. It exists for scheduled execution outside
// the server process, such as a cron job or container task, and applies
// the same age rule as the server's periodic sweep.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fileforge/fileforge/internal/artifacts"
	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/lifecycle"
	"github.com/fileforge/fileforge/internal/storage"
	"github.com/fileforge/fileforge/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.New(&cfg.Logging)

	blobs, err := storage.New(&cfg.Storage, cfg.Expiry.BackstopAgeDuration(), logger)
	if err != nil {
		return fmt.Errorf("storage init failed: %w", err)
	}

	lc := lifecycle.New()
	if err := blobs.Start(lc); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	lc.WaitForStartup()
	defer lc.Shutdown(10 * time.Second)

	sweeper := artifacts.NewSweeper(blobs, &cfg.Expiry, nil, logger)

	deleted, err := sweeper.Sweep(context.Background(), time.Now())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	logger.Info("sweep finished", "deleted", deleted)
	return nil
}
