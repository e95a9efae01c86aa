// Package artifacts owns the two-phase artifact namespace on top of
// blob storage: uploaded originals, converted results, and the expiry
// sweep that removes both by age. Identifiers are opaque UUIDv4 tokens
// minted at upload acceptance and never derived from user input.
package artifacts

import (
	"errors"
	"net/http"
)

// Domain errors for artifact operations.
var (
	// ErrInvalidID indicates an identifier that does not match the strict
	// UUID pattern. This gate runs before any store lookup.
	ErrInvalidID = errors.New("invalid artifact identifier")

	// ErrNotFound indicates no stored object exists for the identifier
	// and phase.
	ErrNotFound = errors.New("artifact not found")
)

// MapHTTPStatus maps artifact errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
