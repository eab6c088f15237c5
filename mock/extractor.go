package mock

import "github.com/fwojciec/prodex"

var (
	_ prodex.ProductExtractor  = (*ProductExtractor)(nil)
	_ prodex.HeaderCollector   = (*HeaderCollector)(nil)
	_ prodex.MetadataCollector = (*MetadataCollector)(nil)
)

// ProductExtractor is a mock implementation of prodex.ProductExtractor.
type ProductExtractor struct {
	ExtractProductsFn func(html, pageURL string) ([]*prodex.Product, error)
}

func (e *ProductExtractor) ExtractProducts(html, pageURL string) ([]*prodex.Product, error) {
	return e.ExtractProductsFn(html, pageURL)
}

// HeaderCollector is a mock implementation of prodex.HeaderCollector.
type HeaderCollector struct {
	CollectHeadersFn func(html string) (prodex.Headers, error)
}

func (c *HeaderCollector) CollectHeaders(html string) (prodex.Headers, error) {
	return c.CollectHeadersFn(html)
}

// MetadataCollector is a mock implementation of prodex.MetadataCollector.
type MetadataCollector struct {
	CollectMetadataFn func(html, pageURL string) (*prodex.Metadata, error)
}

func (c *MetadataCollector) CollectMetadata(html, pageURL string) (*prodex.Metadata, error) {
	return c.CollectMetadataFn(html, pageURL)
}
