package crawl

import (
	"context"

	"github.com/fwojciec/prodex"
)

// Prober decides whether a shop needs a browser to render its products or
// whether plain HTTP sees the same catalog.
type Prober struct {
	HTTP      prodex.Fetcher
	Browser   prodex.Fetcher
	Extractor prodex.ProductExtractor
}

// Choose fetches probeURL with both fetchers and returns the one to use for
// the rest of the site. HTTP is preferred unless rendering reveals
// noticeably more product data. When one fetcher fails the other is chosen.
func (p *Prober) Choose(ctx context.Context, probeURL string) prodex.Fetcher {
	httpHTML, err := p.HTTP.Fetch(ctx, probeURL)
	if err != nil {
		return p.Browser
	}
	browserHTML, err := p.Browser.Fetch(ctx, probeURL)
	if err != nil {
		return p.HTTP
	}
	if RenderingAddsProducts(httpHTML, browserHTML, probeURL, p.Extractor) {
		return p.Browser
	}
	return p.HTTP
}

// RenderingAddsProducts reports whether the rendered page carries
// noticeably more product data than the static one: its catalog score is
// over 50% higher, or the static page scores nothing at all. Extraction
// errors count as needing the browser.
func RenderingAddsProducts(staticHTML, renderedHTML, pageURL string, extractor prodex.ProductExtractor) bool {
	static, err := extractor.ExtractProducts(staticHTML, pageURL)
	if err != nil {
		return true
	}
	rendered, err := extractor.ExtractProducts(renderedHTML, pageURL)
	if err != nil {
		return true
	}

	staticScore, renderedScore := catalogScore(static), catalogScore(rendered)
	if staticScore == 0 {
		return renderedScore > 0
	}
	return float64(renderedScore) > float64(staticScore)*1.5
}

// catalogScore counts the fields of products that carry real data rather
// than defaults.
func catalogScore(products []*prodex.Product) int {
	score := 0
	for _, p := range products {
		if p.Title != prodex.DefaultTitle {
			score++
		}
		if p.Price != prodex.DefaultPrice {
			score++
		}
		score += len(p.Images)
	}
	return score
}
