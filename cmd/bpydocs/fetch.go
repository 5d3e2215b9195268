package main

import (
	"fmt"

	"github.com/fwojciec/bpydocs"
	"github.com/fwojciec/bpydocs/index"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	result, err := index.FetchReference(deps.Ctx, deps.Fetcher, c.URL, c.Out, index.FetchOptions{
		Concurrency: c.Concurrency,
		RPS:         c.RPS,
	}, deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d pages to %s (%d failed)\n", result.Pages, c.Out, result.Failed)
	return nil
}
