package main

import (
	"fmt"

	"github.com/fwojciec/bpydocs"
	"github.com/fwojciec/bpydocs/mcp"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Cache.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, mcp.FormatCacheStats(stats))
	return nil
}
