// Package crawl scrapes batches of storefront pages: it fetches them with
// retries under per-domain rate limits and runs the product extractor and
// page collectors over each one.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is how many pages are scraped at once when
// Scraper.Concurrency is not set.
const DefaultConcurrency = 3

var _ prodex.PageScraper = (*Scraper)(nil)

// Scraper fetches pages and extracts products, headings and metadata from
// each. Headers and Metadata are optional; RateLimiter and Logger may be
// nil.
type Scraper struct {
	Fetcher     prodex.Fetcher
	Extractor   prodex.ProductExtractor
	Headers     prodex.HeaderCollector
	Metadata    prodex.MetadataCollector
	RateLimiter prodex.DomainLimiter
	Logger      *slog.Logger
	Concurrency int
	RetryDelays []time.Duration

	// Now stamps PageResult.FetchedAt. Defaults to time.Now.
	Now func() time.Time
}

// ScrapeAll scrapes every distinct URL and returns one result per URL in
// first-seen order. Pages that fail carry the failure in PageResult.Error;
// the batch only stops when ctx is done, in which case the results gathered
// so far are returned with ctx's error.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, progress prodex.ScrapeProgressFunc) ([]*prodex.PageResult, error) {
	seen := bloom.NewSeen(uint(len(urls)))
	pages := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen.Claim(u) {
			pages = append(pages, u)
		}
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu        sync.Mutex
		completed int
	)
	report := func(url string, err error) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		completed++
		progress(prodex.ScrapeProgress{
			URL:       url,
			Completed: completed,
			Total:     len(pages),
			Error:     err,
		})
	}

	results := make([]*prodex.PageResult, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := s.scrapePage(gctx, u)
			results[i] = res
			report(u, err)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		done := make([]*prodex.PageResult, 0, len(results))
		for _, r := range results {
			if r != nil {
				done = append(done, r)
			}
		}
		return done, err
	}
	return results, nil
}

// scrapePage always returns a result. The error, also recorded in the
// result, is the reason the page could not be fetched or extracted.
func (s *Scraper) scrapePage(ctx context.Context, url string) (*prodex.PageResult, error) {
	res := &prodex.PageResult{
		ID:        uuid.NewString(),
		URL:       url,
		FetchedAt: s.now(),
	}
	fail := func(err error) (*prodex.PageResult, error) {
		res.Error = err.Error()
		var e *prodex.Error
		if errors.As(err, &e) {
			res.Error = e.Message
		}
		return res, err
	}

	domain, err := Domain(url)
	if err != nil {
		return fail(err)
	}
	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, domain); err != nil {
			return fail(err)
		}
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, url, s.Fetcher.Fetch, s.Logger, delays)
	if err != nil {
		return fail(err)
	}
	res.ContentHash = ComputeHash(html)

	if res.Products, err = s.Extractor.ExtractProducts(html, url); err != nil {
		return fail(err)
	}
	if s.Headers != nil {
		if res.Headers, err = s.Headers.CollectHeaders(html); err != nil {
			return fail(err)
		}
	}
	if s.Metadata != nil {
		if res.Metadata, err = s.Metadata.CollectMetadata(html, url); err != nil {
			return fail(err)
		}
	}
	return res, nil
}

func (s *Scraper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
