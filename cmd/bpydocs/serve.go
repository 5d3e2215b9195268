package main

import (
	"fmt"

	"github.com/fwojciec/bpydocs/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	// Sweep expired entries before accepting requests so stale entries
	// from previous sessions do not linger.
	if _, err := deps.Cache.ClearExpired(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: expired entry sweep failed: %v\n", err)
	}

	handler := mcp.NewHandler(deps.Embedder, deps.Index, deps.Cache, deps.Logger)
	s := mcp.NewServer(handler, deps.Version)

	if c.SSE {
		addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
		deps.Logger.Info("starting MCP SSE server", "addr", addr)
		sseServer := server.NewSSEServer(s,
			server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
		)
		return sseServer.Start(addr)
	}

	deps.Logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s)
}
