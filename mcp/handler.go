// Package mcp exposes documentation search over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/bpydocs"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Search limit bounds for the search_docs tool.
const (
	DefaultSearchLimit = 5
	MinSearchLimit     = 1
	MaxSearchLimit     = 20
)

// Handler implements the documentation search tools.
//
// Tool failures never propagate as Go errors: every failure is converted
// to an MCP error result so a broken dependency degrades the tool, not
// the server.
type Handler struct {
	Embedder bpydocs.Embedder
	Index    bpydocs.VectorIndex
	Cache    bpydocs.Cache
	Logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(embedder bpydocs.Embedder, index bpydocs.VectorIndex, cache bpydocs.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		Embedder: embedder,
		Index:    index,
		Cache:    cache,
		Logger:   logger,
	}
}

// NewServer creates an MCP server with the documentation tools registered.
func NewServer(h *Handler, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Blender Docs Search",
		version,
		server.WithToolCapabilities(true),
	)
	h.AddTools(s)
	return s
}

// AddTools registers the documentation tools on an MCP server.
func (h *Handler) AddTools(s *server.MCPServer) {
	s.AddTool(h.toolSearchDocs(), h.SearchDocs)
	s.AddTool(h.toolGetFunction(), h.GetFunction)
	s.AddTool(h.toolListModules(), h.ListModules)
	s.AddTool(h.toolCacheStats(), h.CacheStats)
}

func (h *Handler) toolSearchDocs() mcp.Tool {
	return mcp.NewTool(
		"search_docs",
		mcp.WithDescription("Search Blender Python documentation using semantic search."),
		mcp.WithTitleAnnotation("Search Documentation"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("query",
			mcp.Description("Natural language search query (e.g., \"create mesh modifier\")."),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-20, default 5)."),
		),
	)
}

func (h *Handler) SearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Clamp before cache key derivation so out-of-range requests share
	// the clamped entry.
	limit := clampLimit(request.GetInt("limit", DefaultSearchLimit))

	cached, err := h.Cache.GetSearchResults(ctx, query, limit)
	if err == nil {
		h.Logger.Debug("search cache hit", "query", query, "limit", limit)
		return mcp.NewToolResultText(FormatSearchResults(cached, query)), nil
	}
	if bpydocs.ErrorCode(err) != bpydocs.ENOTFOUND {
		h.Logger.Error("search cache read failed", "query", query, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error searching documentation: %v", err)), nil
	}

	embedding, err := h.Embedder.Embed(ctx, query)
	if err != nil {
		h.Logger.Error("query embedding failed", "query", query, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error searching documentation: %v", err)), nil
	}

	results, err := h.Index.Query(ctx, embedding, limit)
	if err != nil {
		h.Logger.Error("vector query failed", "query", query, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error searching documentation: %v", err)), nil
	}

	if err := h.Cache.CacheSearchResults(ctx, query, limit, results); err != nil {
		h.Logger.Error("search cache write failed", "query", query, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error searching documentation: %v", err)), nil
	}

	return mcp.NewToolResultText(FormatSearchResults(results, query)), nil
}

func (h *Handler) toolGetFunction() mcp.Tool {
	return mcp.NewTool(
		"get_function",
		mcp.WithDescription("Get detailed information about a specific Blender API function or class."),
		mcp.WithTitleAnnotation("Get Function Details"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("function_path",
			mcp.Description("Full path to function/class (e.g., \"bpy.ops.mesh.subdivide\")."),
			mcp.Required(),
		),
	)
}

func (h *Handler) GetFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	functionPath, err := request.RequireString("function_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	details, err := h.Cache.GetFunctionDetails(ctx, functionPath)
	if err == nil {
		h.Logger.Debug("function cache hit", "function_path", functionPath)
		return mcp.NewToolResultText(FormatFunctionDetails(details)), nil
	}
	if bpydocs.ErrorCode(err) != bpydocs.ENOTFOUND {
		h.Logger.Error("function cache read failed", "function_path", functionPath, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving function details: %v", err)), nil
	}

	details, err = h.Index.Fetch(ctx, functionPath)
	if bpydocs.ErrorCode(err) == bpydocs.ENOTFOUND {
		// An unknown path is an answer, not an error.
		return mcp.NewToolResultText(fmt.Sprintf("Function '%s' not found in documentation.", functionPath)), nil
	}
	if err != nil {
		h.Logger.Error("function lookup failed", "function_path", functionPath, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving function details: %v", err)), nil
	}

	if err := h.Cache.CacheFunctionDetails(ctx, functionPath, details); err != nil {
		h.Logger.Error("function cache write failed", "function_path", functionPath, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving function details: %v", err)), nil
	}

	return mcp.NewToolResultText(FormatFunctionDetails(details)), nil
}

func (h *Handler) toolListModules() mcp.Tool {
	return mcp.NewTool(
		"list_modules",
		mcp.WithDescription("List available Blender Python modules."),
		mcp.WithTitleAnnotation("List Modules"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("parent_module",
			mcp.Description("Parent module to list submodules for (e.g., \"bpy.ops\")."),
		),
	)
}

func (h *Handler) ListModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parentModule := request.GetString("parent_module", "")
	return mcp.NewToolResultText(FormatModules(parentModule)), nil
}

func (h *Handler) toolCacheStats() mcp.Tool {
	return mcp.NewTool(
		"cache_stats",
		mcp.WithDescription("Show cache statistics: entry counts, hit counts, database size and TTL."),
		mcp.WithTitleAnnotation("Cache Statistics"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (h *Handler) CacheStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.Cache.Stats(ctx)
	if err != nil {
		h.Logger.Error("cache stats failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving cache statistics: %v", err)), nil
	}
	return mcp.NewToolResultText(FormatCacheStats(stats)), nil
}

func clampLimit(limit int) int {
	if limit < MinSearchLimit {
		return MinSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
