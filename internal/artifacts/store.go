package artifacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/fileforge/fileforge/internal/storage"
)

// Phase names partition the blob keyspace. Uploaded originals and
// converted results for the same artifact share an identifier but never
// a key prefix.
const (
	PhaseUploaded  = "uploads"
	PhaseConverted = "converted"
)

// MetadataMIMEKey is the object metadata key carrying the validated
// MIME type of an uploaded original.
const MetadataMIMEKey = "mime-type"

// idPattern is the strict identifier gate: lowercase hex UUID with
// dashes, nothing else. Anything failing this pattern is rejected
// before the store is consulted, so path-traversal payloads never
// reach key construction.
var idPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// NewID mints a fresh artifact identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidateID checks an externally supplied identifier against the
// strict UUID pattern.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Object is a stored artifact retrieved from a phase namespace.
type Object struct {
	Key      string
	LeafName string
	Data     []byte
	MIMEType string
}

// Store provides phase-scoped access to artifacts over a blob storage
// backend. All lookups take identifiers that have already passed
// ValidateID; Store revalidates defensively since it is the last gate
// before key construction.
type Store struct {
	blobs  storage.System
	logger *slog.Logger
}

// NewStore creates an artifact store over the given blob backend.
func NewStore(blobs storage.System, logger *slog.Logger) *Store {
	return &Store{
		blobs:  blobs,
		logger: logger.With("system", "artifacts"),
	}
}

// Key constructs the blob key for an artifact leaf within a phase.
func Key(phase, id, leaf string) string {
	return phase + "/" + id + "/" + leaf
}

// PutUploaded stores an uploaded original under the uploads phase,
// recording its validated MIME type as object metadata.
func (s *Store) PutUploaded(ctx context.Context, id, leaf string, data []byte, mimeType string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	key := Key(PhaseUploaded, id, leaf)
	meta := map[string]string{MetadataMIMEKey: mimeType}

	if err := s.blobs.Store(ctx, key, data, meta); err != nil {
		return fmt.Errorf("store uploaded artifact: %w", err)
	}

	s.logger.Debug("stored uploaded artifact", "id", id, "key", key, "size", len(data))
	return nil
}

// PutConverted stores a conversion result under the converted phase.
// Any prior result for the identifier is replaced, so repeated
// conversion requests never accumulate stale outputs.
func (s *Store) PutConverted(ctx context.Context, id, leaf string, data []byte, mimeType string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	// Replace rather than accumulate: a second conversion with a
	// different target extension must not leave the first result behind.
	if prior, err := s.find(ctx, PhaseConverted, id); err == nil {
		if prior.Key != Key(PhaseConverted, id, leaf) {
			if err := s.blobs.Delete(ctx, prior.Key); err != nil {
				return fmt.Errorf("replace converted artifact: %w", err)
			}
		}
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	key := Key(PhaseConverted, id, leaf)
	meta := map[string]string{MetadataMIMEKey: mimeType}

	if err := s.blobs.Store(ctx, key, data, meta); err != nil {
		return fmt.Errorf("store converted artifact: %w", err)
	}

	s.logger.Debug("stored converted artifact", "id", id, "key", key, "size", len(data))
	return nil
}

// GetUploaded retrieves the uploaded original for an identifier.
func (s *Store) GetUploaded(ctx context.Context, id string) (*Object, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return s.find(ctx, PhaseUploaded, id)
}

// GetConverted retrieves the conversion result for an identifier.
func (s *Store) GetConverted(ctx context.Context, id string) (*Object, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return s.find(ctx, PhaseConverted, id)
}

// find locates the single object stored under a phase/id prefix.
func (s *Store) find(ctx context.Context, phase, id string) (*Object, error) {
	prefix := phase + "/" + id + "/"

	key, data, err := s.blobs.RetrievePrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, phase, id)
		}
		return nil, fmt.Errorf("retrieve artifact: %w", err)
	}

	obj := &Object{
		Key:      key,
		LeafName: leafName(key),
		Data:     data,
	}

	meta, err := s.blobs.Metadata(ctx, key)
	if err == nil {
		obj.MIMEType = meta[MetadataMIMEKey]
	}

	return obj, nil
}

func leafName(key string) string {
	idx := strings.LastIndex(key, "/")
	if idx < 0 {
		return key
	}
	return key[idx+1:]
}
