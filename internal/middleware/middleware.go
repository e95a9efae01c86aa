// Package middleware provides HTTP middleware composition and the
// standard middleware stack used by the service.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// System composes middleware into a single handler chain.
type System interface {
	Use(mw Middleware)
	Apply(handler http.Handler) http.Handler
}

type system struct {
	stack []Middleware
}

// New creates an empty middleware system.
func New() System {
	return &system{}
}

// Use appends middleware to the stack. Middleware added first wraps
// outermost, so it sees the request first and the response last.
func (s *system) Use(mw Middleware) {
	s.stack = append(s.stack, mw)
}

// Apply wraps the handler with the registered middleware stack.
func (s *system) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(s.stack) - 1; i >= 0; i-- {
		wrapped = s.stack[i](wrapped)
	}
	return wrapped
}
