package qdrant

import (
	"testing"

	"github.com/fwojciec/bpydocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointID(t *testing.T) {
	t.Parallel()

	t.Run("is deterministic per function path", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, pointID("bpy.ops.mesh.subdivide"), pointID("bpy.ops.mesh.subdivide"))
	})

	t.Run("differs between paths", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, pointID("bpy.ops.mesh.subdivide"), pointID("bpy.ops.mesh.primitive_cube_add"))
	})
}

func TestMetadataPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	md := &bpydocs.EntryMetadata{
		FunctionPath: "bpy.ops.mesh.subdivide",
		Title:        "subdivide",
		Description:  "Subdivide selected edges.",
		Module:       "bpy.ops.mesh",
		DocType:      bpydocs.DocTypeFunction,
		Signature:    "subdivide(number_cuts=1)",
		Parameters: []bpydocs.Parameter{
			{Name: "number_cuts", Type: "int", Description: "Number of cuts"},
		},
		ContentHash: "a1b2c3d4e5f60708",
	}

	payload, err := metadataToPayload(md)
	require.NoError(t, err)

	// The Fetch fallback filters on this exact payload key.
	fp, ok := payload["function_path"]
	require.True(t, ok)
	assert.Equal(t, "bpy.ops.mesh.subdivide", fp.GetStringValue())

	got, err := metadataFromPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, md, got)
}

func TestMetadataFromPayload_Invalid(t *testing.T) {
	t.Parallel()

	// A payload without a function path is unusable as a search result.
	payload, err := metadataToPayload(&bpydocs.EntryMetadata{Title: "orphan"})
	require.NoError(t, err)

	_, err = metadataFromPayload(payload)
	require.Error(t, err)
	assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
}
