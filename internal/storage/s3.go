package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/lifecycle"
)

// s3store implements System against an S3 bucket. Object metadata
// carries the detected media type; the provider-level retention
// backstop is installed as a bucket lifecycle rule at startup.
type s3store struct {
	client      *s3.Client
	bucket      string
	backstopAge time.Duration
	logger      *slog.Logger
}

func newS3(cfg *config.StorageConfig, backstopAge time.Duration, logger *slog.Logger) (System, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			// Path-style addressing is required for most S3-compatible stores.
			o.UsePathStyle = true
		})
	}

	return &s3store{
		client:      s3.NewFromConfig(awsCfg, opts...),
		bucket:      cfg.Bucket,
		backstopAge: backstopAge,
		logger:      logger.With("system", "storage", "provider", "s3"),
	}, nil
}

func (s *s3store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system", "bucket", s.bucket)

	lc.OnStartup(func() {
		ctx := lc.Context()

		if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: aws.String(s.bucket),
		}); err != nil {
			s.logger.Error("bucket not reachable", "bucket", s.bucket, "error", err)
			return
		}

		if err := s.installBackstop(ctx); err != nil {
			s.logger.Error("backstop lifecycle rule failed", "error", err)
			return
		}

		s.logger.Info("storage bucket initialized")
	})

	return nil
}

// installBackstop applies a bucket lifecycle rule expiring every object
// after the backstop age. S3 lifecycle granularity is whole days, so
// the configured age rounds up.
func (s *s3store) installBackstop(ctx context.Context) error {
	days := int32(math.Ceil(s.backstopAge.Hours() / 24))
	if days < 1 {
		days = 1
	}

	_, err := s.client.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket: aws.String(s.bucket),
		LifecycleConfiguration: &types.BucketLifecycleConfiguration{
			Rules: []types.LifecycleRule{
				{
					ID:     aws.String("artifact-retention-backstop"),
					Status: types.ExpirationStatusEnabled,
					Filter: &types.LifecycleRuleFilter{
						Prefix: aws.String(""),
					},
					Expiration: &types.LifecycleExpiration{
						Days: aws.Int32(days),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put lifecycle configuration: %w", err)
	}

	s.logger.Info("backstop lifecycle rule installed", "days", days)
	return nil
}

func (s *s3store) Store(ctx context.Context, key string, data []byte, metadata map[string]string) error {
	if key == "" {
		return ErrInvalidKey
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if len(metadata) > 0 {
		input.Metadata = metadata
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *s3store) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}

func (s *s3store) RetrievePrefix(ctx context.Context, prefix string) (string, []byte, error) {
	output, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", nil, fmt.Errorf("list objects: %w", err)
	}
	if len(output.Contents) == 0 {
		return "", nil, ErrNotFound
	}

	key := aws.ToString(output.Contents[0].Key)
	data, err := s.Retrieve(ctx, key)
	if err != nil {
		return "", nil, err
	}
	return key, data, nil
}

func (s *s3store) Metadata(ctx context.Context, key string) (map[string]string, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	output, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("head object: %w", err)
	}

	if output.Metadata == nil {
		return map[string]string{}, nil
	}
	return output.Metadata, nil
}

func (s *s3store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	// DeleteObject is idempotent: deleting a missing key is not an error.
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *s3store) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			info := ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			objects = append(objects, info)
		}
	}

	return objects, nil
}
