package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/routes"
	"github.com/fileforge/fileforge/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	runtime, err := NewRuntime(cfg)
	if err != nil {
		return err
	}
	domain := NewDomain(runtime, cfg)

	routeSys := routes.New(runtime.Logger)
	registerRoutes(routeSys, runtime, domain, cfg)

	handler := buildMiddleware(runtime, cfg).Apply(routeSys.Build())
	httpServer := server.New(&cfg.Server, handler, runtime.Logger)

	if err := runtime.Start(); err != nil {
		return err
	}
	domain.Sweeper.Start(runtime.Lifecycle)
	if err := httpServer.Start(runtime.Lifecycle); err != nil {
		return err
	}

	runtime.Lifecycle.WaitForStartup()
	runtime.Logger.Info("service ready", "addr", cfg.Server.Addr(), "storage", cfg.Storage.Provider)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	runtime.Logger.Info("shutdown signal received")
	if err := runtime.Lifecycle.Shutdown(cfg.Server.ShutdownTimeoutDuration()); err != nil {
		return fmt.Errorf("shutdown incomplete: %w", err)
	}

	runtime.Logger.Info("service stopped")
	return nil
}
