package index_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/bpydocs"
	"github.com/fwojciec/bpydocs/index"
	"github.com/fwojciec/bpydocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceIndexHTML = `<html><body>
<a href="bpy.ops.mesh.html">Mesh Operators</a>
<a href="bpy.types.Mesh.html">Mesh</a>
<a href="bpy.ops.mesh.html">Mesh Operators (again)</a>
<a href="#section">Fragment</a>
<a href="genindex.html">Index</a>
<a href="https://elsewhere.example.com/page.html">External</a>
<a href="style.css">Stylesheet</a>
</body></html>`

func TestFetchReference(t *testing.T) {
	t.Parallel()

	t.Run("downloads index and same-host pages", func(t *testing.T) {
		t.Parallel()

		outDir := filepath.Join(t.TempDir(), "docs")

		var mu sync.Mutex
		var fetched []string
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				mu.Lock()
				fetched = append(fetched, url)
				mu.Unlock()
				if url == "https://docs.blender.org/api/current/index.html" {
					return referenceIndexHTML, nil
				}
				return "<html>page</html>", nil
			},
		}

		result, err := index.FetchReference(context.Background(), fetcher,
			"https://docs.blender.org/api/current/index.html", outDir,
			index.FetchOptions{Concurrency: 2, RPS: 1000}, discardLogger())
		require.NoError(t, err)

		// Index page plus three unique same-host links.
		assert.Equal(t, 4, result.Pages)
		assert.Equal(t, 0, result.Failed)
		assert.Len(t, fetched, 4)
		assert.NotContains(t, fetched, "https://elsewhere.example.com/page.html")

		for _, name := range []string{"index.html", "bpy.ops.mesh.html", "bpy.types.Mesh.html", "genindex.html"} {
			_, err := os.Stat(filepath.Join(outDir, name))
			require.NoError(t, err, "expected %s to be saved", name)
		}
	})

	t.Run("counts page failures without aborting", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				switch url {
				case "https://docs.blender.org/api/current/index.html":
					return referenceIndexHTML, nil
				case "https://docs.blender.org/api/current/genindex.html":
					return "", bpydocs.Errorf(bpydocs.ENOTFOUND, "page not found")
				default:
					return "<html>page</html>", nil
				}
			},
		}

		result, err := index.FetchReference(context.Background(), fetcher,
			"https://docs.blender.org/api/current/index.html", filepath.Join(t.TempDir(), "docs"),
			index.FetchOptions{RPS: 1000}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, 3, result.Pages)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("index page failure is fatal", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", bpydocs.Errorf(bpydocs.EUNAVAILABLE, "host unreachable")
			},
		}

		_, err := index.FetchReference(context.Background(), fetcher,
			"https://docs.blender.org/api/current/index.html", filepath.Join(t.TempDir(), "docs"),
			index.FetchOptions{}, discardLogger())
		require.Error(t, err)
		assert.Equal(t, bpydocs.EUNAVAILABLE, bpydocs.ErrorCode(err))
	})

	t.Run("rejects a malformed base URL", func(t *testing.T) {
		t.Parallel()

		_, err := index.FetchReference(context.Background(), &mock.Fetcher{},
			"://not-a-url", t.TempDir(), index.FetchOptions{}, discardLogger())
		require.Error(t, err)
		assert.Equal(t, bpydocs.EINVALID, bpydocs.ErrorCode(err))
	})
}
