package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/bpydocs"
	bpyhttp "github.com/fwojciec/bpydocs/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns page body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>bpy.ops.mesh</body></html>"))
		}))
		defer srv.Close()

		html, err := bpyhttp.NewFetcher().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Contains(t, html, "bpy.ops.mesh")
	})

	t.Run("404 is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := bpyhttp.NewFetcher().Fetch(context.Background(), srv.URL+"/missing.html")
		require.Error(t, err)
		assert.Equal(t, bpydocs.ENOTFOUND, bpydocs.ErrorCode(err))
	})

	t.Run("server error is EINTERNAL", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := bpyhttp.NewFetcher().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINTERNAL, bpydocs.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := bpyhttp.NewFetcher().Fetch(ctx, srv.URL)
		require.Error(t, err)
		assert.Equal(t, bpydocs.EUNAVAILABLE, bpydocs.ErrorCode(err))
	})

	t.Run("rejects malformed URLs", func(t *testing.T) {
		t.Parallel()

		_, err := bpyhttp.NewFetcher().Fetch(context.Background(), "http://bad url with spaces")
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
	})
}
