// Package conversion orchestrates the upload, convert, and download
// operations: validation at the upload boundary, rule-based dispatch to
// the image and document converters, and phase-scoped artifact storage.
package conversion

import (
	"context"
	"log/slog"

	"github.com/fileforge/fileforge/internal/artifacts"
	"github.com/fileforge/fileforge/internal/documents"
	"github.com/fileforge/fileforge/internal/metrics"
	"github.com/fileforge/fileforge/internal/validation"
)

// convertedBase is the fixed base name of every conversion result. The
// download filename is this base plus the target's extension; client
// filenames never influence it.
const convertedBase = "converted"

// System defines the conversion service operations.
type System interface {
	Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error)
	Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error)
	Download(ctx context.Context, id string) (*Download, error)
}

type service struct {
	validator *validation.Validator
	store     *artifacts.Store
	router    *Router
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates the conversion service. The metrics parameter may be nil
// when instrumentation is not wired.
func New(validator *validation.Validator, store *artifacts.Store, router *Router, m *metrics.Metrics, logger *slog.Logger) System {
	return &service{
		validator: validator,
		store:     store,
		router:    router,
		metrics:   m,
		logger:    logger.With("system", "conversion"),
	}
}

// Upload validates a file and stores it as an uploaded artifact under a
// freshly minted job identifier. Nothing is stored unless validation
// passes in full.
func (s *service) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	result, err := s.validator.Validate(data, filename)
	if err != nil {
		s.logger.Warn("upload rejected", "filename", filename, "error", err)
		return nil, err
	}

	id := artifacts.NewID()
	leaf := validation.SanitizeFilename(filename)

	if err := s.store.PutUploaded(ctx, id, leaf, data, result.MIMEType); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Uploads.Inc()
	}

	upload := &UploadResult{
		JobID:    id,
		Filename: leaf,
		MIMEType: result.MIMEType,
		Size:     int64(len(data)),
	}

	if result.MIMEType == mimePDF {
		if pages, err := documents.PageCount(data); err == nil {
			upload.PageCount = pages
		} else {
			s.logger.Warn("page count unavailable", "job_id", id, "error", err)
		}
	}

	s.logger.Info("upload accepted", "job_id", id, "filename", leaf, "mime_type", result.MIMEType, "size", len(data))

	return upload, nil
}

// Convert retrieves an uploaded artifact, routes it through the
// matching converter, and stores the result under the converted phase.
func (s *service) Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error) {
	obj, err := s.store.GetUploaded(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	sourceMIME := obj.MIMEType
	if sourceMIME == "" {
		// Metadata was lost; the payload bytes remain authoritative.
		sourceMIME = validation.DetectMIME(obj.Data)
	}

	result, err := s.router.Route(ctx, sourceMIME, req.TargetFormat, obj.Data, req.Options)
	if err != nil {
		s.recordConversion(metrics.OutcomeFailure)
		s.logger.Warn("conversion failed",
			"job_id", req.JobID, "source", sourceMIME, "target", req.TargetFormat, "error", err)
		return nil, err
	}

	leaf := convertedBase + result.Extension
	if err := s.store.PutConverted(ctx, req.JobID, leaf, result.Data, result.MIMEType); err != nil {
		s.recordConversion(metrics.OutcomeFailure)
		return nil, err
	}

	s.recordConversion(metrics.OutcomeSuccess)
	s.logger.Info("conversion completed",
		"job_id", req.JobID, "source", sourceMIME, "target", req.TargetFormat, "size", len(result.Data))

	return &ConvertResponse{
		JobID:    req.JobID,
		Filename: leaf,
		MIMEType: result.MIMEType,
		Size:     int64(len(result.Data)),
	}, nil
}

// Download retrieves the conversion result for a job identifier.
func (s *service) Download(ctx context.Context, id string) (*Download, error) {
	obj, err := s.store.GetConverted(ctx, id)
	if err != nil {
		return nil, err
	}

	mime := obj.MIMEType
	if mime == "" {
		mime = validation.DetectMIME(obj.Data)
	}

	if s.metrics != nil {
		s.metrics.Downloads.Inc()
	}

	return &Download{
		Filename: obj.LeafName,
		MIMEType: mime,
		Data:     obj.Data,
	}, nil
}

func (s *service) recordConversion(outcome string) {
	if s.metrics != nil {
		s.metrics.Conversions.WithLabelValues(outcome).Inc()
	}
}
