// Package validation determines an uploaded blob's true media type from
// its content and enforces the upload policy: size ceiling, media-type
// allow-list, and extension consistency. Client-supplied Content-Type
// headers and filenames are never trusted; only byte-content sniffing
// is authoritative.
package validation

import (
	"errors"
	"net/http"
)

// Validation errors. Each check in Validate is a possible terminal
// rejection; callers can distinguish them with errors.Is.
var (
	ErrSizeExceeded      = errors.New("file size exceeds limit")
	ErrUnsupportedType   = errors.New("file type is not allowed")
	ErrExtensionMismatch = errors.New("extension does not match detected type")
)

// MapHTTPStatus maps validation errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSizeExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, ErrExtensionMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
