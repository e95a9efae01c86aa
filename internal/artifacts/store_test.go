package artifacts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fileforge/fileforge/internal/artifacts"
	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) (*artifacts.Store, storage.System) {
	t.Helper()

	cfg := &config.StorageConfig{
		Provider: config.ProviderFilesystem,
		BasePath: t.TempDir(),
	}
	blobs, err := storage.New(cfg, 24*time.Hour, testLogger())
	if err != nil {
		t.Fatalf("storage.New() error: %v", err)
	}
	return artifacts.NewStore(blobs, testLogger()), blobs
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"minted id", artifacts.NewID(), true},
		{"canonical form", "0f8fad5b-d9cb-469f-a165-70867728950e", true},
		{"empty", "", false},
		{"upper case", "0F8FAD5B-D9CB-469F-A165-70867728950E", false},
		{"missing dashes", "0f8fad5bd9cb469fa16570867728950e", false},
		{"traversal", "../../converted/x", false},
		{"trailing garbage", "0f8fad5b-d9cb-469f-a165-70867728950e/extra", false},
		{"short", "0f8fad5b-d9cb-469f-a165", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := artifacts.ValidateID(tt.id)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, artifacts.ErrInvalidID) {
				t.Errorf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestStore_UploadedRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	id := artifacts.NewID()

	payload := []byte("file contents")
	if err := store.PutUploaded(ctx, id, "report.pdf", payload, "application/pdf"); err != nil {
		t.Fatalf("PutUploaded() error: %v", err)
	}

	obj, err := store.GetUploaded(ctx, id)
	if err != nil {
		t.Fatalf("GetUploaded() error: %v", err)
	}

	if string(obj.Data) != string(payload) {
		t.Error("payload mismatch")
	}
	if obj.LeafName != "report.pdf" {
		t.Errorf("expected report.pdf, got %q", obj.LeafName)
	}
	if obj.MIMEType != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", obj.MIMEType)
	}
	if obj.Key != artifacts.Key(artifacts.PhaseUploaded, id, "report.pdf") {
		t.Errorf("unexpected key %q", obj.Key)
	}
}

func TestStore_PhasesAreIsolated(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	id := artifacts.NewID()

	if err := store.PutUploaded(ctx, id, "in.md", []byte("# md"), "text/markdown"); err != nil {
		t.Fatalf("PutUploaded() error: %v", err)
	}

	if _, err := store.GetConverted(ctx, id); !errors.Is(err, artifacts.ErrNotFound) {
		t.Errorf("uploaded object must not be visible in the converted phase, got %v", err)
	}
}

func TestStore_PutConvertedReplaces(t *testing.T) {
	store, blobs := testStore(t)
	ctx := context.Background()
	id := artifacts.NewID()

	if err := store.PutConverted(ctx, id, "converted.jpg", []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("first PutConverted() error: %v", err)
	}
	if err := store.PutConverted(ctx, id, "converted.png", []byte("png"), "image/png"); err != nil {
		t.Fatalf("second PutConverted() error: %v", err)
	}

	obj, err := store.GetConverted(ctx, id)
	if err != nil {
		t.Fatalf("GetConverted() error: %v", err)
	}
	if obj.LeafName != "converted.png" {
		t.Errorf("expected the replacement converted.png, got %q", obj.LeafName)
	}

	objects, err := blobs.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(objects) != 1 {
		t.Errorf("expected exactly one converted object, found %d", len(objects))
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store, _ := testStore(t)

	if _, err := store.GetUploaded(context.Background(), artifacts.NewID()); !errors.Is(err, artifacts.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RejectsInvalidID(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	if err := store.PutUploaded(ctx, "../evil", "f.png", []byte("x"), "image/png"); !errors.Is(err, artifacts.ErrInvalidID) {
		t.Errorf("PutUploaded: expected ErrInvalidID, got %v", err)
	}
	if _, err := store.GetUploaded(ctx, "../evil"); !errors.Is(err, artifacts.ErrInvalidID) {
		t.Errorf("GetUploaded: expected ErrInvalidID, got %v", err)
	}
	if _, err := store.GetConverted(ctx, "not a uuid"); !errors.Is(err, artifacts.ErrInvalidID) {
		t.Errorf("GetConverted: expected ErrInvalidID, got %v", err)
	}
}
