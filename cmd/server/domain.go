package main

import (
	"github.com/fileforge/fileforge/internal/artifacts"
	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/conversion"
	"github.com/fileforge/fileforge/internal/documents"
	"github.com/fileforge/fileforge/internal/validation"
)

// Domain holds the service's domain systems, built on the shared
// runtime infrastructure.
type Domain struct {
	Conversion conversion.System
	Sweeper    *artifacts.Sweeper
}

// NewDomain wires the domain systems from runtime and configuration.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	store := artifacts.NewStore(runtime.Storage, runtime.Logger)
	docs := documents.New(&cfg.Convert, runtime.Logger)
	validator := validation.New(cfg.Storage.MaxUploadSizeBytes())

	return &Domain{
		Conversion: conversion.New(
			validator,
			store,
			conversion.NewRouter(docs),
			runtime.Metrics,
			runtime.Logger,
		),
		Sweeper: artifacts.NewSweeper(
			runtime.Storage,
			&cfg.Expiry,
			runtime.Metrics,
			runtime.Logger,
		),
	}
}
