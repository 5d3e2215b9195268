package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/bpydocs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Cache    bpydocs.Cache
	Embedder bpydocs.Embedder
	Index    bpydocs.VectorIndex
	Fetcher  bpydocs.Fetcher
	Version  string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve ServeCmd `cmd:"" help:"Start the MCP documentation search server"`
	Index IndexCmd `cmd:"" help:"Parse and index downloaded reference pages"`
	Fetch FetchCmd `cmd:"" help:"Download the Blender Python API reference"`
	Stats StatsCmd `cmd:"" help:"Show cache statistics"`
	Clear ClearCmd `cmd:"" help:"Clear expired cache entries"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	SSE  bool   `help:"Serve over SSE instead of stdio"`
	Host string `default:"localhost" help:"Host for the SSE server"`
	Port int    `default:"8080" help:"Port for the SSE server"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Dir         string `arg:"" help:"Directory containing downloaded reference HTML files"`
	BatchSize   int    `short:"b" default:"100" help:"Entries per embedding batch"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent embedding batches"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL         string  `arg:"" optional:"" default:"https://docs.blender.org/api/current/index.html" help:"Reference index page URL"`
	Out         string  `short:"o" default:"blender_docs" help:"Output directory for downloaded pages"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent page downloads"`
	RPS         float64 `default:"2" help:"Maximum requests per second"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	All bool `help:"Clear all entries, not only expired ones"`
}
