package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/lifecycle"
)

// metaSuffix names the sidecar file carrying object metadata.
// Sidecars and in-flight temp files are invisible to List and
// RetrievePrefix.
const (
	metaSuffix = ".meta"
	tmpSuffix  = ".tmp"
)

// filesystem implements System using the local filesystem.
// It stores blobs as files under a configurable base path, with keys
// mapping directly to relative file paths and metadata in JSON sidecars.
type filesystem struct {
	basePath    string
	backstopAge time.Duration
	logger      *slog.Logger
}

// newFilesystem creates a filesystem storage system. The base path is
// resolved to an absolute path during construction; directory creation
// is deferred to Start() for lifecycle integration.
func newFilesystem(cfg *config.StorageConfig, backstopAge time.Duration, logger *slog.Logger) (System, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	return &filesystem{
		basePath:    absPath,
		backstopAge: backstopAge,
		logger:      logger.With("system", "storage", "provider", "filesystem"),
	}, nil
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage system", "base_path", f.basePath)

	lc.OnStartup(func() {
		if err := os.MkdirAll(f.basePath, 0755); err != nil {
			f.logger.Error("storage initialization failed", "error", err)
			return
		}
		f.purgeBackstop()
		f.logger.Info("storage directory initialized")
	})

	return nil
}

// purgeBackstop removes anything older than the backstop age. The sweep
// handles the short TTL; this is the provider-level retention ceiling,
// applied at startup so a long-dead sweep cannot cause indefinite retention.
func (f *filesystem) purgeBackstop() {
	cutoff := time.Now().Add(-f.backstopAge)

	err := filepath.WalkDir(f.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				f.logger.Warn("backstop purge failed", "path", path, "error", err)
			} else {
				f.logger.Info("backstop purged object", "path", path)
			}
		}
		return nil
	})
	if err != nil {
		f.logger.Warn("backstop purge walk failed", "error", err)
	}
}

func (f *filesystem) Store(ctx context.Context, key string, data []byte, metadata map[string]string) error {
	path, err := f.fullPath(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmpPath := path + tmpSuffix
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	if len(metadata) > 0 {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		if err := os.WriteFile(path+metaSuffix, encoded, 0644); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}
	}

	return nil
}

func (f *filesystem) Retrieve(ctx context.Context, key string) ([]byte, error) {
	path, err := f.fullPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (f *filesystem) RetrievePrefix(ctx context.Context, prefix string) (string, []byte, error) {
	dir, err := f.fullPath(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return "", nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || isInternalName(entry.Name()) {
			continue
		}
		key := strings.TrimSuffix(prefix, "/") + "/" + entry.Name()
		data, err := f.Retrieve(ctx, key)
		if err != nil {
			return "", nil, err
		}
		return key, data, nil
	}

	return "", nil, ErrNotFound
}

func (f *filesystem) Metadata(ctx context.Context, key string) (map[string]string, error) {
	path, err := f.fullPath(key)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat file: %w", err)
	}

	encoded, err := os.ReadFile(path + metaSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	metadata := map[string]string{}
	if err := json.Unmarshal(encoded, &metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return metadata, nil
}

func (f *filesystem) Delete(ctx context.Context, key string) error {
	path, err := f.fullPath(key)
	if err != nil {
		return err
	}

	os.Remove(path + metaSuffix)

	dir := filepath.Dir(path)

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("remove file: %w", err)
	}

	if dir != f.basePath && strings.HasPrefix(dir, f.basePath) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			f.logger.Warn("failed to read directory for cleanup", "dir", dir, "error", err)
			return nil
		}

		if len(entries) == 0 {
			if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
				f.logger.Warn("failed to remove empty directory", "dir", dir, "error", err)
			}
		}
	}

	return nil
}

func (f *filesystem) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	err := filepath.WalkDir(f.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || isInternalName(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(f.basePath, path)
		if err != nil {
			return nil
		}

		objects = append(objects, ObjectInfo{
			Key:          filepath.ToSlash(rel),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	return objects, nil
}

func (f *filesystem) fullPath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidKey
	}

	fullPath := filepath.Join(f.basePath, cleaned)

	if !strings.HasPrefix(fullPath, f.basePath) {
		return "", ErrInvalidKey
	}

	return fullPath, nil
}

func isInternalName(name string) bool {
	return strings.HasSuffix(name, metaSuffix) || strings.HasSuffix(name, tmpSuffix)
}
