package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

var _ prodex.HeaderCollector = (*HeaderCollector)(nil)

// HeaderCollector gathers the heading text of a page.
type HeaderCollector struct{}

// NewHeaderCollector creates a new HeaderCollector.
func NewHeaderCollector() *HeaderCollector {
	return &HeaderCollector{}
}

// CollectHeaders parses html and returns its headings.
func (c *HeaderCollector) CollectHeaders(html string) (prodex.Headers, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prodex.Errorf(prodex.EINVALID, "failed to parse HTML: %v", err)
	}
	return CollectHeaders(doc), nil
}

// CollectHeaders maps each heading level present in doc (H1 through H6) to
// the visible text of its last occurrence.
func CollectHeaders(doc *goquery.Document) prodex.Headers {
	headers := prodex.Headers{}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		headers[strings.ToUpper(goquery.NodeName(h))] = visibleText(h)
	})
	return headers
}
