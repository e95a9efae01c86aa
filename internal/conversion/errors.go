package conversion

import (
	"errors"
	"net/http"

	"github.com/fileforge/fileforge/internal/artifacts"
	"github.com/fileforge/fileforge/internal/documents"
	"github.com/fileforge/fileforge/internal/images"
	"github.com/fileforge/fileforge/internal/validation"
)

// Domain errors for conversion operations.
var (
	// ErrUnsupportedConversion indicates no conversion rule matches the
	// source type and requested target.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrInvalidOptions indicates conversion options that fail validation,
	// such as a resize without dimensions or a quality out of range.
	ErrInvalidOptions = errors.New("invalid conversion options")
)

// MapHTTPStatus maps conversion errors, including errors surfaced from
// the validation, artifact, image, and document layers, to HTTP status
// codes. Client mistakes map to 4xx; converter failures are 500s.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedConversion),
		errors.Is(err, ErrInvalidOptions),
		errors.Is(err, images.ErrUnsupportedFormat),
		errors.Is(err, images.ErrInvalidDimensions):
		return http.StatusBadRequest
	case errors.Is(err, artifacts.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, artifacts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, validation.ErrSizeExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, validation.ErrUnsupportedType),
		errors.Is(err, validation.ErrExtensionMismatch):
		return http.StatusBadRequest
	case errors.Is(err, images.ErrConversionFailed),
		errors.Is(err, documents.ErrConversionFailed):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
