package goquery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

var _ prodex.ProductExtractor = (*Extractor)(nil)

// Extractor finds product containers in rendered HTML and turns each one
// into a prodex.Product.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractProducts parses html and extracts one product per candidate
// container. Relative links resolve against pageURL, which may be empty.
// Markup that yields no products is not an error.
func (e *Extractor) ExtractProducts(html, pageURL string) ([]*prodex.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prodex.Errorf(prodex.EINVALID, "failed to parse HTML: %v", err)
	}
	return ExtractProducts(doc, pageURL), nil
}

// ExtractProducts extracts products from an already parsed document. The
// result is never nil and follows the document order of the containers.
func ExtractProducts(doc *goquery.Document, pageURL string) []*prodex.Product {
	base := documentBase(doc, pageURL)
	category := extractCategory(doc)

	candidates := DiscoverCandidates(doc)
	products := make([]*prodex.Product, 0, candidates.Length())
	candidates.Each(func(i int, candidate *goquery.Selection) {
		products = append(products, assemble(candidate, i, category, base))
	})
	return products
}

// assemble runs every field extractor on a candidate and fills in defaults
// for the fields that came back empty.
func assemble(candidate *goquery.Selection, index int, category string, base *url.URL) *prodex.Product {
	sale, regular := extractSalePrices(candidate)
	return &prodex.Product{
		ID:           firstNonEmpty(extractIdentifier(candidate), fmt.Sprintf("product-%d", index)),
		Title:        firstNonEmpty(extractTitle(candidate), prodex.DefaultTitle),
		Price:        firstNonEmpty(extractPrice(candidate), prodex.DefaultPrice),
		SalePrice:    sale,
		RegularPrice: regular,
		Description:  extractDescription(candidate),
		Category:     category,
		Availability: extractAvailability(candidate),
		Variants:     extractVariants(candidate),
		Images:       imageURLs(collectImages(candidate, index, base)),
		URL:          extractURL(candidate, base),
	}
}
