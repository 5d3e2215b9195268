package index

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/bpydocs"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Fetch defaults.
const (
	DefaultFetchConcurrency = 4
	DefaultFetchRPS         = 2.0
)

// FetchOptions configures FetchReference.
type FetchOptions struct {
	// Concurrency bounds the number of page downloads in flight.
	Concurrency int

	// RPS bounds the request rate against the documentation host.
	RPS float64
}

// FetchResult summarizes a reference download.
type FetchResult struct {
	Pages  int // pages written
	Failed int // pages that failed to download
}

// FetchReference downloads the reference index page at baseURL, extracts
// its same-host HTML links and saves every page into outDir. Individual
// page failures are logged and counted, not fatal.
func FetchReference(ctx context.Context, fetcher bpydocs.Fetcher, baseURL, outDir string, opts FetchOptions, logger *slog.Logger) (*FetchResult, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}

	indexHTML, err := fetcher.Fetch(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	links, err := extractPageLinks(indexHTML, base)
	if err != nil {
		return nil, err
	}
	logger.Info("discovered reference pages", "base_url", baseURL, "pages", len(links))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL, "failed to create output directory %q: %v", outDir, err)
	}

	if err := writePage(outDir, baseURL, indexHTML); err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	rps := opts.RPS
	if rps <= 0 {
		rps = DefaultFetchRPS
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	var pages, failed atomic.Int64
	pages.Add(1) // index page

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, link := range links {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			html, err := fetcher.Fetch(gctx, link)
			if err != nil {
				logger.Warn("failed to fetch page", "url", link, "error", err)
				failed.Add(1)
				return nil
			}

			if err := writePage(outDir, link, html); err != nil {
				logger.Warn("failed to save page", "url", link, "error", err)
				failed.Add(1)
				return nil
			}

			pages.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &FetchResult{
		Pages:  int(pages.Load()),
		Failed: int(failed.Load()),
	}
	logger.Info("reference download complete", "pages", result.Pages, "failed", result.Failed)
	return result, nil
}

// extractPageLinks returns the absolute URLs of same-host .html links on
// the page, deduplicated, excluding the page itself.
func extractPageLinks(html string, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "failed to parse index page: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""

		if resolved.Host != base.Host || !strings.HasSuffix(resolved.Path, ".html") {
			return
		}
		link := resolved.String()
		if link == base.String() || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links, nil
}

// writePage saves a page under its URL's base filename.
func writePage(outDir, pageURL, html string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return bpydocs.Errorf(bpydocs.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		name = "index.html"
	}

	if err := os.WriteFile(filepath.Join(outDir, name), []byte(html), 0o644); err != nil {
		return bpydocs.Errorf(bpydocs.EINTERNAL, "failed to write %q: %v", name, err)
	}
	return nil
}
