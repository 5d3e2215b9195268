package main

import (
	"fmt"

	"github.com/fwojciec/bpydocs"
	"github.com/fwojciec/bpydocs/goquery"
	"github.com/fwojciec/bpydocs/index"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	indexer := &index.Indexer{
		Parser:      goquery.NewParser(),
		Embedder:    deps.Embedder,
		Index:       deps.Index,
		Logger:      deps.Logger,
		BatchSize:   c.BatchSize,
		Concurrency: c.Concurrency,
	}

	result, err := indexer.IndexDir(deps.Ctx, c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d entries from %d files (%d vectors, %d files failed)\n",
		result.Entries, result.Files, result.Vectors, result.Failed)
	return nil
}
