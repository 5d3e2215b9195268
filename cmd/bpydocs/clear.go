package main

import (
	"fmt"

	"github.com/fwojciec/bpydocs"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if c.All {
		if err := deps.Cache.ClearAll(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", bpydocs.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, "Cleared all cache entries")
		return nil
	}

	removed, err := deps.Cache.ClearExpired(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleared %d expired cache entries\n", removed)
	return nil
}
