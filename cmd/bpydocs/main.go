package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/bpydocs"
	bpyhttp "github.com/fwojciec/bpydocs/http"
	"github.com/fwojciec/bpydocs/openai"
	"github.com/fwojciec/bpydocs/qdrant"
	bpyslog "github.com/fwojciec/bpydocs/slog"
	"github.com/fwojciec/bpydocs/sqlite"
	"github.com/joho/godotenv"
)

// Version is the server version reported to MCP clients.
const Version = "0.1.0"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Cache settings. Set before calling Run(); environment variables
	// take precedence.
	CacheDir   string
	TTLSeconds int

	// Cache service for end-to-end testing.
	Cache bpydocs.Cache
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		CacheDir:   sqlite.DefaultCacheDir,
		TTLSeconds: sqlite.DefaultTTLSeconds,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Load .env before reading any configuration. A missing file is fine.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
		Version: Version,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bpydocs"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'bpydocs --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cache, err := sqlite.OpenCache(m.CacheDir, m.TTLSeconds, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different cache directory\n", sqlite.EnvCacheDir)
		return fmt.Errorf("failed to open cache: %w", err)
	}
	m.Cache = cache
	deps.Cache = bpyslog.NewLoggingCache(cache, logger)

	// Wire command-specific dependencies
	if cmd == "serve" || cmd == "index" {
		embedder, err := newEmbedderFromEnv(stderr)
		if err != nil {
			return err
		}
		deps.Embedder = embedder

		index, err := newIndexFromEnv()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check QDRANT_HOST and QDRANT_PORT point at a running Qdrant instance")
			return err
		}
		defer index.Close()
		deps.Index = index
	}

	if cmd == "fetch" {
		deps.Fetcher = bpyhttp.NewFetcher()
	}

	return kongCtx.Run(deps)
}

func newEmbedderFromEnv(stderr io.Writer) (bpydocs.Embedder, error) {
	apiKey := os.Getenv(openai.EnvAPIKey)
	if apiKey == "" {
		fmt.Fprintf(stderr, "%s environment variable not set. Add it to your .env file\n", openai.EnvAPIKey)
		return nil, fmt.Errorf("%s not set", openai.EnvAPIKey)
	}
	return openai.NewEmbedder(apiKey, os.Getenv(openai.EnvModel), 0)
}

func newIndexFromEnv() (*qdrant.Index, error) {
	cfg := qdrant.Config{
		Host:       os.Getenv("QDRANT_HOST"),
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		Collection: os.Getenv("QDRANT_COLLECTION"),
	}
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid QDRANT_PORT value %q", v)
		}
		cfg.Port = port
	}

	index, err := qdrant.NewIndex(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	return index, nil
}
