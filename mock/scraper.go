package mock

import (
	"context"

	"github.com/fwojciec/prodex"
)

var _ prodex.PageScraper = (*PageScraper)(nil)

// PageScraper is a mock implementation of prodex.PageScraper.
type PageScraper struct {
	ScrapeAllFn func(ctx context.Context, urls []string, progress prodex.ScrapeProgressFunc) ([]*prodex.PageResult, error)
}

func (s *PageScraper) ScrapeAll(ctx context.Context, urls []string, progress prodex.ScrapeProgressFunc) ([]*prodex.PageResult, error) {
	return s.ScrapeAllFn(ctx, urls, progress)
}
