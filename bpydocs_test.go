package bpydocs_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/bpydocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code for application error", func(t *testing.T) {
		t.Parallel()
		err := bpydocs.Errorf(bpydocs.ENOTFOUND, "entry not found")
		assert.Equal(t, bpydocs.ENOTFOUND, bpydocs.ErrorCode(err))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, bpydocs.ErrorCode(nil))
	})

	t.Run("returns EINTERNAL for non-application error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, bpydocs.EINTERNAL, bpydocs.ErrorCode(errors.New("boom")))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns message for application error", func(t *testing.T) {
		t.Parallel()
		err := bpydocs.Errorf(bpydocs.EINVALID, "query %q is empty", "")
		assert.Equal(t, `query "" is empty`, bpydocs.ErrorMessage(err))
	})

	t.Run("returns generic message for non-application error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Internal error.", bpydocs.ErrorMessage(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, bpydocs.ErrorMessage(nil))
	})
}

func TestDocEntry_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid entry passes", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{
			FunctionPath: "bpy.ops.mesh.subdivide",
			DocType:      bpydocs.DocTypeFunction,
		}
		require.NoError(t, e.Validate())
	})

	t.Run("missing function path fails", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{DocType: bpydocs.DocTypeFunction}
		err := e.Validate()
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
	})

	t.Run("missing doc type fails", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{FunctionPath: "bpy.ops.mesh.subdivide"}
		err := e.Validate()
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
	})
}

func TestDocEntry_DeriveModule(t *testing.T) {
	t.Parallel()

	t.Run("derives module from function path", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{FunctionPath: "bpy.ops.mesh.subdivide"}
		e.DeriveModule()
		assert.Equal(t, "bpy.ops.mesh", e.Module)
	})

	t.Run("keeps existing module", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{FunctionPath: "bpy.ops.mesh.subdivide", Module: "bpy.ops"}
		e.DeriveModule()
		assert.Equal(t, "bpy.ops", e.Module)
	})

	t.Run("leaves module empty for single-segment path", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{FunctionPath: "bmesh"}
		e.DeriveModule()
		assert.Empty(t, e.Module)
	})
}

func TestDocEntry_EmbeddingText(t *testing.T) {
	t.Parallel()

	t.Run("includes populated fields in stable order", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{
			FunctionPath: "bpy.ops.mesh.subdivide",
			Description:  "Subdivide selected edges.",
			Signature:    "subdivide(number_cuts=1)",
			Parameters:   []bpydocs.Parameter{{Name: "number_cuts", Type: "int"}},
			Module:       "bpy.ops.mesh",
			DocType:      bpydocs.DocTypeFunction,
		}

		text := e.EmbeddingText()

		assert.True(t, strings.HasPrefix(text, "Function: bpy.ops.mesh.subdivide"))
		assert.Contains(t, text, "Module: bpy.ops.mesh")
		assert.Contains(t, text, "Type: function")
		assert.Contains(t, text, "Description: Subdivide selected edges.")
		assert.Contains(t, text, "Signature: subdivide(number_cuts=1)")
		assert.Contains(t, text, "Parameters: number_cuts")
	})

	t.Run("omits empty fields", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{FunctionPath: "bmesh.ops.subdivide_edges"}
		text := e.EmbeddingText()
		assert.Equal(t, "Function: bmesh.ops.subdivide_edges", text)
	})
}

func TestDocEntry_Metadata(t *testing.T) {
	t.Parallel()

	t.Run("truncates long description", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{
			FunctionPath: "bpy.ops.mesh.subdivide",
			DocType:      bpydocs.DocTypeFunction,
			Description:  strings.Repeat("x", 2000),
		}
		md := e.Metadata()
		assert.Len(t, md.Description, 1000)
	})

	t.Run("drops oversized signature", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{
			FunctionPath: "bpy.ops.mesh.subdivide",
			DocType:      bpydocs.DocTypeFunction,
			Signature:    strings.Repeat("x", 600),
		}
		md := e.Metadata()
		assert.Empty(t, md.Signature)
	})

	t.Run("limits parameter list", func(t *testing.T) {
		t.Parallel()
		e := &bpydocs.DocEntry{
			FunctionPath: "bpy.ops.mesh.subdivide",
			DocType:      bpydocs.DocTypeFunction,
			Parameters:   make([]bpydocs.Parameter, 25),
		}
		md := e.Metadata()
		assert.Len(t, md.Parameters, 10)
	})
}
