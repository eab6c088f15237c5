package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prodex"
)

var _ prodex.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs sitemap discovery of the wrapped service.
type LoggingSitemapService struct {
	next   prodex.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next prodex.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs how many URLs
// were found.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *prodex.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.InfoContext(ctx, "sitemap discovery",
			"url", baseURL,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
