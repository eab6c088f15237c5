package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/prodex"
	main "github.com/fwojciec/prodex/cmd/prodex"
	"github.com/fwojciec/prodex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoScraper returns one result per URL with a single product, reporting
// progress as it goes.
func echoScraper(got *[]string) *mock.PageScraper {
	return &mock.PageScraper{
		ScrapeAllFn: func(_ context.Context, urls []string, progress prodex.ScrapeProgressFunc) ([]*prodex.PageResult, error) {
			*got = urls
			results := make([]*prodex.PageResult, len(urls))
			for i, u := range urls {
				results[i] = &prodex.PageResult{
					URL:      u,
					Products: []*prodex.Product{{ID: "p", Title: "Widget", Images: []string{}}},
				}
				if progress != nil {
					progress(prodex.ScrapeProgress{URL: u, Completed: i + 1, Total: len(urls)})
				}
			}
			return results, nil
		},
	}
}

func TestScrapeCmd_URLs(t *testing.T) {
	t.Parallel()

	t.Run("scrapes the given URLs and prints a JSON array", func(t *testing.T) {
		t.Parallel()

		var scraped []string
		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Scraper: echoScraper(&scraped),
		}
		cmd := &main.ScrapeCmd{URLs: []string{"https://shop.example/a", "https://shop.example/b"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://shop.example/a", "https://shop.example/b"}, scraped)

		var results []*prodex.PageResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
		require.Len(t, results, 2)
		assert.Equal(t, "https://shop.example/b", results[1].URL)

		assert.Contains(t, stderr.String(), "[2/2] https://shop.example/b")
		assert.Contains(t, stderr.String(), "Scraped 2 pages, 2 products, 0 failed")
	})

	t.Run("requires at least one URL", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}
		cmd := &main.ScrapeCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, prodex.EINVALID, prodex.ErrorCode(err))
	})
}

func TestScrapeCmd_Sitemap(t *testing.T) {
	t.Parallel()

	t.Run("adds sitemap URLs after explicit ones, passing the filter", func(t *testing.T) {
		t.Parallel()

		var gotFilter *prodex.URLFilter
		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *prodex.URLFilter) ([]string, error) {
				gotFilter = filter
				return []string{"https://shop.example/products/a", "https://shop.example/products/b"}, nil
			},
		}
		var scraped []string
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Sitemaps: sitemaps,
			Scraper:  echoScraper(&scraped),
		}
		cmd := &main.ScrapeCmd{
			URLs:    []string{"https://shop.example/"},
			Sitemap: "https://shop.example/",
			Filter:  []string{"/products/"},
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://shop.example/",
			"https://shop.example/products/a",
			"https://shop.example/products/b",
		}, scraped)
		require.NotNil(t, gotFilter)
		assert.True(t, gotFilter.Match("https://shop.example/products/c"))
		assert.False(t, gotFilter.Match("https://shop.example/blog/post"))
	})

	t.Run("rejects an invalid filter before discovery", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &stderr,
		}
		cmd := &main.ScrapeCmd{Sitemap: "https://shop.example/", Filter: []string{"[unclosed"}}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, prodex.EINVALID, prodex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("reports discovery failures", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *prodex.URLFilter) ([]string, error) {
				return nil, prodex.Errorf(prodex.EINTERNAL, "sitemap unavailable")
			},
		}
		var stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &stderr,
			Sitemaps: sitemaps,
		}
		cmd := &main.ScrapeCmd{Sitemap: "https://shop.example/"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "sitemap unavailable")
	})
}

func TestScrapeCmd_Failures(t *testing.T) {
	t.Parallel()

	t.Run("per-page failures are reported and counted", func(t *testing.T) {
		t.Parallel()

		scraper := &mock.PageScraper{
			ScrapeAllFn: func(_ context.Context, urls []string, progress prodex.ScrapeProgressFunc) ([]*prodex.PageResult, error) {
				progress(prodex.ScrapeProgress{URL: urls[0], Completed: 1, Total: 1, Error: errors.New("connection refused")})
				return []*prodex.PageResult{{URL: urls[0], Error: "connection refused"}}, nil
			},
		}
		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Scraper: scraper,
		}
		cmd := &main.ScrapeCmd{URLs: []string{"https://shop.example/a"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "skip https://shop.example/a: connection refused")
		assert.Contains(t, stderr.String(), "Scraped 0 pages, 0 products, 1 failed")
		assert.Contains(t, stdout.String(), `"error": "connection refused"`)
	})

	t.Run("interrupted batch prints partial results and returns the error", func(t *testing.T) {
		t.Parallel()

		scraper := &mock.PageScraper{
			ScrapeAllFn: func(_ context.Context, urls []string, _ prodex.ScrapeProgressFunc) ([]*prodex.PageResult, error) {
				return []*prodex.PageResult{{URL: urls[0]}}, context.Canceled
			},
		}
		var stdout bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &bytes.Buffer{},
			Scraper: scraper,
		}
		cmd := &main.ScrapeCmd{URLs: []string{"https://shop.example/a", "https://shop.example/b"}}

		err := cmd.Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		var results []*prodex.PageResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
		assert.Len(t, results, 1)
	})
}

func TestScrapeCmd_Store(t *testing.T) {
	t.Parallel()

	t.Run("saves every result and commits", func(t *testing.T) {
		t.Parallel()

		var saved []string
		var committed bool
		store := &mock.ResultStore{
			SaveFn: func(_ context.Context, r *prodex.PageResult) error {
				saved = append(saved, r.URL)
				return nil
			},
			CommitFn: func() error {
				committed = true
				return nil
			},
			AbortFn: func() error { return nil },
		}
		var scraped []string
		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Scraper: echoScraper(&scraped),
			Store:   store,
		}
		cmd := &main.ScrapeCmd{URLs: []string{"https://shop.example/a", "https://shop.example/b"}, Out: "results"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://shop.example/a", "https://shop.example/b"}, saved)
		assert.True(t, committed, "store should be committed on success")
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Saved 2 pages to results")
	})

	t.Run("skips results that cannot be mapped to a file", func(t *testing.T) {
		t.Parallel()

		var committed bool
		store := &mock.ResultStore{
			SaveFn: func(_ context.Context, r *prodex.PageResult) error {
				if r.URL == "not a url" {
					return prodex.Errorf(prodex.EINVALID, "URL %q has no host", r.URL)
				}
				return nil
			},
			CommitFn: func() error {
				committed = true
				return nil
			},
			AbortFn: func() error { return nil },
		}
		var scraped []string
		var stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &stderr,
			Scraper: echoScraper(&scraped),
			Store:   store,
		}
		cmd := &main.ScrapeCmd{URLs: []string{"not a url", "https://shop.example/a"}, Out: "results"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.True(t, committed)
		assert.Contains(t, stderr.String(), "skip saving not a url")
		assert.Contains(t, stderr.String(), "Saved 1 pages")
	})

	t.Run("aborts when a save fails", func(t *testing.T) {
		t.Parallel()

		var aborted, committed bool
		store := &mock.ResultStore{
			SaveFn: func(context.Context, *prodex.PageResult) error {
				return errors.New("disk full")
			},
			CommitFn: func() error {
				committed = true
				return nil
			},
			AbortFn: func() error {
				aborted = true
				return nil
			},
		}
		var scraped []string
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Scraper: echoScraper(&scraped),
			Store:   store,
		}
		cmd := &main.ScrapeCmd{URLs: []string{"https://shop.example/a"}, Out: "results"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.True(t, aborted, "store should be aborted on save failure")
		assert.False(t, committed)
	})

	t.Run("aborts an interrupted batch", func(t *testing.T) {
		t.Parallel()

		var aborted bool
		store := &mock.ResultStore{
			SaveFn: func(context.Context, *prodex.PageResult) error {
				t.Error("nothing should be saved from an interrupted batch")
				return nil
			},
			CommitFn: func() error { return nil },
			AbortFn: func() error {
				aborted = true
				return nil
			},
		}
		scraper := &mock.PageScraper{
			ScrapeAllFn: func(_ context.Context, urls []string, _ prodex.ScrapeProgressFunc) ([]*prodex.PageResult, error) {
				return []*prodex.PageResult{{URL: urls[0]}}, context.Canceled
			},
		}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Scraper: scraper,
			Store:   store,
		}
		cmd := &main.ScrapeCmd{URLs: []string{"https://shop.example/a"}, Out: "results"}

		err := cmd.Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.True(t, aborted)
	})
}
