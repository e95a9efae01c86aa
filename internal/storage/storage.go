package storage

import (
	"context"
	"time"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/lifecycle"

	"log/slog"
)

// ObjectInfo describes a stored object for listing and expiry decisions.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// System defines the blob storage operations interface. Implementations
// handle the underlying mechanism (filesystem, S3) while providing a
// consistent key-addressed API for binary data plus string metadata.
type System interface {
	// Store saves data at the specified key with optional metadata.
	// If the key already exists, its contents are overwritten.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte, metadata map[string]string) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// RetrievePrefix resolves the first object under the given key prefix
	// and returns its full key and data. Returns ErrNotFound if no object
	// exists under the prefix.
	RetrievePrefix(ctx context.Context, prefix string) (string, []byte, error)

	// Metadata returns the metadata stored with the specified key.
	// Returns an empty map if the object has no metadata.
	// Returns ErrNotFound if the key does not exist.
	Metadata(ctx context.Context, key string) (map[string]string, error)

	// Delete deletes the data at the specified key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// List returns info for every stored object. The expiry sweep uses
	// LastModified to select deletion candidates by age.
	List(ctx context.Context) ([]ObjectInfo, error)

	// Start registers lifecycle hooks with the coordinator and installs
	// the provider-level retention backstop.
	Start(lc *lifecycle.Coordinator) error
}

// New creates the storage system selected by the configuration.
// The backstop age bounds provider-level retention regardless of the
// expiry sweep; see the config package for the two-rule expiry model.
func New(cfg *config.StorageConfig, backstopAge time.Duration, logger *slog.Logger) (System, error) {
	switch cfg.Provider {
	case config.ProviderS3:
		return newS3(cfg, backstopAge, logger)
	default:
		return newFilesystem(cfg, backstopAge, logger)
	}
}
