package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/crawl"
)

// Ensure AutoFetcher implements prodex.Fetcher at compile time.
var _ prodex.Fetcher = (*AutoFetcher)(nil)

// AutoFetcher probes the first page it is asked for and then fetches every
// page with whichever fetcher the probe chose. Storefronts are built with
// one template, so one probe settles the question for the whole batch.
type AutoFetcher struct {
	Prober *crawl.Prober
	Logger *slog.Logger

	once   sync.Once
	chosen prodex.Fetcher
}

func (f *AutoFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.once.Do(func() {
		f.chosen = f.Prober.Choose(ctx, url)
		if f.Logger != nil {
			f.Logger.Info("fetcher chosen", "url", url, "browser", f.chosen == f.Prober.Browser)
		}
	})
	return f.chosen.Fetch(ctx, url)
}

// Close closes both candidate fetchers.
func (f *AutoFetcher) Close() error {
	return errors.Join(f.Prober.HTTP.Close(), f.Prober.Browser.Close())
}
