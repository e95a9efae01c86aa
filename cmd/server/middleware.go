package main

import (
	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/middleware"
)

// buildMiddleware creates and configures the middleware stack with
// slash normalization, request logging, and CORS.
func buildMiddleware(runtime *Runtime, cfg *config.Config) middleware.System {
	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.TrimSlash())
	middlewareSys.Use(middleware.Logger(runtime.Logger))
	middlewareSys.Use(middleware.CORS(&cfg.CORS))
	return middlewareSys
}
