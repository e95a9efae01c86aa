package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

const (
	// EnvStorageProvider overrides the storage provider ("filesystem" or "s3").
	EnvStorageProvider = "STORAGE_PROVIDER"

	// EnvStorageBasePath overrides the filesystem storage base path.
	EnvStorageBasePath = "STORAGE_BASE_PATH"

	// EnvStorageBucket overrides the S3 bucket name.
	EnvStorageBucket = "STORAGE_BUCKET"

	// EnvStorageRegion overrides the S3 region.
	EnvStorageRegion = "STORAGE_REGION"

	// EnvStorageEndpoint overrides the S3 endpoint (for S3-compatible stores).
	EnvStorageEndpoint = "STORAGE_ENDPOINT"

	// EnvStorageAccessKeyID overrides the S3 access key.
	EnvStorageAccessKeyID = "STORAGE_ACCESS_KEY_ID"

	// EnvStorageSecretAccessKey overrides the S3 secret key.
	EnvStorageSecretAccessKey = "STORAGE_SECRET_ACCESS_KEY"

	// EnvStorageMaxUploadSize overrides the upload size ceiling.
	EnvStorageMaxUploadSize = "STORAGE_MAX_UPLOAD_SIZE"
)

// Storage provider names.
const (
	ProviderFilesystem = "filesystem"
	ProviderS3         = "s3"
)

// StorageConfig contains blob storage configuration.
type StorageConfig struct {
	// Provider selects the blob store implementation.
	// Default: "filesystem"
	Provider string `toml:"provider"`

	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath string `toml:"base_path"`

	// Bucket is the S3 bucket name (s3 provider only).
	Bucket string `toml:"bucket"`

	// Region is the AWS region (s3 provider only).
	Region string `toml:"region"`

	// Endpoint is an optional custom endpoint for S3-compatible stores.
	Endpoint string `toml:"endpoint"`

	// AccessKeyID and SecretAccessKey optionally override the default
	// AWS credential chain. Set both or neither; credentials normally
	// arrive via the environment, not the config file.
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"-"`

	MaxUploadSize    string `toml:"max_upload_size"`
	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns the parsed upload size ceiling in bytes.
func (c *StorageConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if size, err := units.RAMInBytes(overlay.MaxUploadSize); err == nil {
		c.MaxUploadSize = overlay.MaxUploadSize
		c.maxUploadSizeVal = size
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MiB"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvStorageBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvStorageBucket); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv(EnvStorageRegion); v != "" {
		c.Region = v
	}
	if v := os.Getenv(EnvStorageEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvStorageAccessKeyID); v != "" {
		c.AccessKeyID = v
	}
	if v := os.Getenv(EnvStorageSecretAccessKey); v != "" {
		c.SecretAccessKey = v
	}
	if v := os.Getenv(EnvStorageMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *StorageConfig) validate() error {
	switch c.Provider {
	case ProviderFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required for filesystem storage")
		}
	case ProviderS3:
		if c.Bucket == "" {
			return fmt.Errorf("bucket required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Provider)
	}

	size, err := units.RAMInBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
