package openai_test

import (
	"context"
	"testing"

	"github.com/fwojciec/bpydocs"
	"github.com/fwojciec/bpydocs/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder(t *testing.T) {
	t.Parallel()

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()
		_, err := openai.NewEmbedder("", "", 0)
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
	})

	t.Run("accepts a key with default model", func(t *testing.T) {
		t.Parallel()
		e, err := openai.NewEmbedder("sk-test", "", 0)
		require.NoError(t, err)
		assert.NotNil(t, e)
	})
}

func TestEmbedder_Validation(t *testing.T) {
	t.Parallel()

	e, err := openai.NewEmbedder("sk-test", "", 0)
	require.NoError(t, err)

	t.Run("rejects empty text", func(t *testing.T) {
		t.Parallel()
		_, err := e.Embed(context.Background(), "")
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
	})

	t.Run("rejects empty text in a batch", func(t *testing.T) {
		t.Parallel()
		_, err := e.EmbedBatch(context.Background(), []string{"first", ""})
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		t.Parallel()
		vectors, err := e.EmbedBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, vectors)
	})
}
