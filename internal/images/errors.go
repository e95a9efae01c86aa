// Package images provides the image converter family: format
// re-encoding, lossy compression, exact resizing, and metadata
// stripping. Every function is pure — bytes in, bytes out — with no
// storage or network access.
package images

import "errors"

// Domain errors for image conversions.
var (
	// ErrUnsupportedFormat indicates the requested encode target has no
	// encoder (webp is decode-only in this service).
	ErrUnsupportedFormat = errors.New("image format is not supported for encoding")

	// ErrConversionFailed indicates the payload could not be decoded or
	// re-encoded. The upload validator admits only sniffable image types,
	// so this usually means a corrupt or truncated file.
	ErrConversionFailed = errors.New("image conversion failed")

	// ErrInvalidDimensions indicates a resize request with non-positive
	// width or height.
	ErrInvalidDimensions = errors.New("invalid target dimensions")
)
