package mock

import (
	"context"

	"github.com/fwojciec/prodex"
)

var _ prodex.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of prodex.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *prodex.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *prodex.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
