package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/bpydocs"
	main "github.com/fwojciec/bpydocs/cmd/bpydocs"
	"github.com/fwojciec/bpydocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the formatted snapshot", func(t *testing.T) {
		t.Parallel()

		cache := &mock.Cache{
			StatsFn: func(_ context.Context) (*bpydocs.CacheStats, error) {
				return &bpydocs.CacheStats{
					SearchEntries:   2,
					FunctionEntries: 1,
					TotalEntries:    3,
					SearchHits:      5,
					FunctionHits:    2,
					TotalHits:       7,
					DatabaseSizeMB:  0.12,
					TTLHours:        24,
					Status:          bpydocs.CacheStatusActive,
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Cache:  cache,
		}

		cmd := &main.StatsCmd{}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "Status: active")
		assert.Contains(t, output, "Total entries: 3 (7 hits)")
		assert.Contains(t, output, "TTL: 24.0 hours")
	})

	t.Run("reports failures on stderr", func(t *testing.T) {
		t.Parallel()

		cache := &mock.Cache{
			StatsFn: func(_ context.Context) (*bpydocs.CacheStats, error) {
				return nil, bpydocs.Errorf(bpydocs.EINTERNAL, "stat failed")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Cache:  cache,
		}

		cmd := &main.StatsCmd{}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "stat failed")
	})
}
