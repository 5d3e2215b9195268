package mcp

import (
	"fmt"
	"strings"

	"github.com/fwojciec/bpydocs"
)

// FormatSearchResults renders ranked search results as plain text.
func FormatSearchResults(results []bpydocs.SearchResult, query string) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'", query)
	}

	var out []string
	out = append(out, fmt.Sprintf("Search results for '%s':\n", query))

	for i, r := range results {
		md := r.Metadata
		out = append(out, fmt.Sprintf("%d. **%s** (%s)", i+1, md.FunctionPath, md.DocType))
		out = append(out, fmt.Sprintf("   Module: %s", md.Module))
		out = append(out, fmt.Sprintf("   Score: %.3f", r.Score))
		out = append(out, fmt.Sprintf("   %s...", truncate(md.Description, 150)))
		if md.Signature != "" {
			out = append(out, fmt.Sprintf("   Signature: `%s`", md.Signature))
		}
		out = append(out, "")
	}

	return strings.Join(out, "\n")
}

// FormatFunctionDetails renders a metadata record as markdown.
func FormatFunctionDetails(md *bpydocs.EntryMetadata) string {
	var out []string

	out = append(out, fmt.Sprintf("# %s", md.FunctionPath))
	out = append(out, fmt.Sprintf("**Type**: %s", md.DocType))
	out = append(out, "")

	description := md.Description
	if description == "" {
		description = "No description available"
	}
	out = append(out, "## Description", description, "")

	if md.Signature != "" {
		out = append(out, "## Signature", "```python", md.Signature, "```", "")
	}

	if len(md.Parameters) > 0 {
		out = append(out, "## Parameters")
		for _, p := range md.Parameters {
			out = append(out, fmt.Sprintf("- **%s** (%s): %s", p.Name, p.Type, p.Description))
		}
		out = append(out, "")
	}

	if md.ExampleCode != "" {
		out = append(out, "## Example", "```python", md.ExampleCode, "```", "")
	}

	out = append(out, fmt.Sprintf("**Module**: %s", md.Module))

	return strings.Join(out, "\n")
}

// FormatCacheStats renders a cache statistics snapshot as plain text.
func FormatCacheStats(stats *bpydocs.CacheStats) string {
	var out []string

	out = append(out, "Cache statistics:")
	out = append(out, fmt.Sprintf("  Status: %s", stats.Status))
	out = append(out, fmt.Sprintf("  Search entries: %d (%d hits)", stats.SearchEntries, stats.SearchHits))
	out = append(out, fmt.Sprintf("  Function entries: %d (%d hits)", stats.FunctionEntries, stats.FunctionHits))
	out = append(out, fmt.Sprintf("  Total entries: %d (%d hits)", stats.TotalEntries, stats.TotalHits))
	out = append(out, fmt.Sprintf("  Database size: %.2f MB", stats.DatabaseSizeMB))
	out = append(out, fmt.Sprintf("  TTL: %.1f hours", stats.TTLHours))

	return strings.Join(out, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
