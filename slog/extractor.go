package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/prodex"
)

var _ prodex.ProductExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor logs product extraction of the wrapped extractor.
type LoggingExtractor struct {
	next   prodex.ProductExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next prodex.ProductExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractProducts delegates to the wrapped extractor. Pages yielding no
// products are logged at debug level since listing pages often have none.
func (e *LoggingExtractor) ExtractProducts(html, pageURL string) (products []*prodex.Product, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", pageURL,
			"count", len(products),
			"duration", time.Since(begin),
		}
		switch {
		case err != nil:
			e.logger.Warn("product extraction", append(attrs, "err", err)...)
		case len(products) == 0:
			e.logger.Debug("product extraction", attrs...)
		default:
			e.logger.Info("product extraction", attrs...)
		}
	}(time.Now())
	return e.next.ExtractProducts(html, pageURL)
}
