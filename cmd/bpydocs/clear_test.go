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

func TestClearCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("clears expired entries by default", func(t *testing.T) {
		t.Parallel()

		cleared := false
		cache := &mock.Cache{
			ClearExpiredFn: func(_ context.Context) (int, error) {
				cleared = true
				return 4, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Cache:  cache,
		}

		cmd := &main.ClearCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.True(t, cleared)
		assert.Contains(t, stdout.String(), "Cleared 4 expired cache entries")
	})

	t.Run("clears everything with --all", func(t *testing.T) {
		t.Parallel()

		wiped := false
		cache := &mock.Cache{
			ClearAllFn: func(_ context.Context) error {
				wiped = true
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Cache:  cache,
		}

		cmd := &main.ClearCmd{All: true}
		require.NoError(t, cmd.Run(deps))

		assert.True(t, wiped)
		assert.Contains(t, stdout.String(), "Cleared all cache entries")
	})

	t.Run("reports failures on stderr", func(t *testing.T) {
		t.Parallel()

		cache := &mock.Cache{
			ClearExpiredFn: func(_ context.Context) (int, error) {
				return 0, bpydocs.Errorf(bpydocs.EINTERNAL, "database is locked")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Cache:  cache,
		}

		cmd := &main.ClearCmd{}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "database is locked")
	})
}
