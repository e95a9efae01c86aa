package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"
)

// Result carries the authoritative detected media type of a validated
// upload. It exists per validation call and is not persisted; callers
// store only the MIMEType.
type Result struct {
	MIMEType string
}

// DefaultAllowedTypes maps each permitted media type to its valid file
// extensions. The map is a default-deny allow-list: a detected type
// absent from it is rejected outright.
//
// Markdown arrives as text/plain from most sniffers, so both entries
// accept .md.
func DefaultAllowedTypes() map[string][]string {
	return map[string][]string{
		"image/png":  {".png"},
		"image/jpeg": {".jpg", ".jpeg"},
		"image/webp": {".webp"},
		"image/gif":  {".gif"},

		"application/pdf": {".pdf"},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx"},

		"text/markdown": {".md"},
		"text/plain":    {".md", ".txt"},
	}
}

// Validator enforces the upload acceptance policy.
type Validator struct {
	maxSize int64
	allowed map[string][]string
}

// New creates a validator with the given size ceiling and the default
// media-type allow-list.
func New(maxSize int64) *Validator {
	return &Validator{
		maxSize: maxSize,
		allowed: DefaultAllowedTypes(),
	}
}

// MaxSize returns the upload size ceiling in bytes. Callers should cap
// reads at MaxSize()+1 so oversized payloads are rejected without being
// buffered whole.
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate checks an upload in order of computational cost: size gate,
// content-based type sniffing, allow-list membership, and extension
// consistency against the detected type. The declared filename is only
// consulted for its extension; the detected type comes exclusively from
// the payload bytes.
func (v *Validator) Validate(data []byte, filename string) (Result, error) {
	if int64(len(data)) > v.maxSize {
		return Result{}, fmt.Errorf("%w: %s", ErrSizeExceeded, units.HumanSize(float64(v.maxSize)))
	}

	detected := normalizeMIME(mimetype.Detect(data).String())

	extensions, ok := v.allowed[detected]
	if !ok {
		return Result{MIMEType: detected}, fmt.Errorf("%w: %s", ErrUnsupportedType, detected)
	}

	ext := extension(filename)
	if !contains(extensions, ext) {
		return Result{MIMEType: detected}, fmt.Errorf(
			"%w: %q is not valid for %s", ErrExtensionMismatch, ext, detected,
		)
	}

	return Result{MIMEType: detected}, nil
}

// SanitizeFilename strips all path components from a client-declared
// filename, keeping only the leaf name. This prevents directory
// traversal in any downstream key construction and is independent of
// validation.
func SanitizeFilename(filename string) string {
	// Normalize Windows separators before taking the base name.
	cleaned := strings.ReplaceAll(filename, `\`, "/")
	base := filepath.Base(cleaned)
	if base == "." || base == ".." || base == "/" || base == "" {
		return "unknown"
	}
	return base
}

// DetectMIME sniffs the media type of a payload from its bytes alone,
// with any parameters stripped. It applies no allow-list; callers that
// need the acceptance policy use Validate.
func DetectMIME(data []byte) string {
	return normalizeMIME(mimetype.Detect(data).String())
}

// normalizeMIME drops any parameters from a media type, so
// "text/plain; charset=utf-8" compares equal to "text/plain".
func normalizeMIME(mime string) string {
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = mime[:idx]
	}
	return strings.TrimSpace(mime)
}

// extension returns the lower-cased suffix after the last dot,
// including the dot, or "" when the filename has no extension.
func extension(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx:])
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
