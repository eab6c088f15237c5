package goquery

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var titleCascade = Cascade{
	"h1",
	"h2",
	"h3",
	"h4",
	".product-title",
	".title",
	"[class*='product-name']",
	"[class*='productName']",
	"[class*='ProductTitle']",
	"[itemprop='name']",
}

var priceCascade = Cascade{
	".price",
	".product-price",
	"[data-price]",
	"[class*='price']",
	"[class*='Price']",
	"[itemprop='price']",
}

var descriptionCascade = Cascade{
	".description",
	".product-description",
	"[itemprop='description']",
	"[class*='description']",
	"[class*='Description']",
}

const (
	salePriceSelector    = ".sale-price, .special-price, [class*='sale'], [class*='Sale']"
	regularPriceSelector = ".regular-price, .original-price, .old-price, [class*='regular'], [class*='original']"
	breadcrumbSelector   = ".breadcrumb, .breadcrumbs, [class*='breadcrumb']"
	skuSelector          = "[itemprop='sku'], .sku, [class*='sku'], [class*='SKU']"
)

// maxPriceTextLen bounds the text accepted by the price scan so that a
// whole product card is not mistaken for its price.
const maxPriceTextLen = 200

func extractTitle(candidate *goquery.Selection) string {
	return trimmedText(titleCascade.First(candidate))
}

func extractDescription(candidate *goquery.Selection) string {
	return trimmedText(descriptionCascade.First(candidate))
}

// extractPrice reads the first conventional price marker and falls back to
// scanning descendants for currency text.
func extractPrice(candidate *goquery.Selection) string {
	if price := trimmedText(priceCascade.First(candidate)); price != "" {
		return price
	}
	return scanPrice(candidate)
}

// scanPrice returns the last descendant text that contains a currency symbol
// and is shorter than maxPriceTextLen.
//
// TODO: the last match is usually the innermost element, but on cards with a
// struck-through old price it picks the wrong one; evaluate first-match
// against a sample of real storefronts before changing it.
func scanPrice(candidate *goquery.Selection) string {
	var price string
	candidate.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.ContainsAny(text, currencySymbols) {
			return
		}
		text = strings.TrimSpace(text)
		if text != "" && utf8.RuneCountInString(text) < maxPriceTextLen {
			price = text
		}
	})
	return price
}

// extractSalePrices returns the sale price and, only when a sale price
// exists, the regular price it replaces.
func extractSalePrices(candidate *goquery.Selection) (sale, regular *string) {
	saleEl := candidate.Find(salePriceSelector).First()
	if saleEl.Length() == 0 {
		return nil, nil
	}
	saleText := trimmedText(saleEl)
	sale = &saleText

	if regularEl := candidate.Find(regularPriceSelector).First(); regularEl.Length() > 0 {
		regularText := trimmedText(regularEl)
		regular = &regularText
	}
	return sale, regular
}

// extractCategory returns the parent category from the page breadcrumb: the
// second-to-last link, since the last one is usually the product itself.
// The breadcrumb lives outside product containers, so it is looked up in doc.
func extractCategory(doc *goquery.Document) string {
	links := doc.Find(breadcrumbSelector).First().Find("a")
	if links.Length() < 2 {
		return ""
	}
	return trimmedText(links.Eq(links.Length() - 2))
}

// extractIdentifier prefers identifier data attributes on the container
// over SKU markers inside it.
func extractIdentifier(candidate *goquery.Selection) string {
	if id := firstNonEmpty(attr(candidate, "data-product-id"), attr(candidate, "data-sku")); id != "" {
		return id
	}
	return trimmedText(candidate.Find(skuSelector).First())
}

// extractURL returns the absolute link of the product: the first anchor
// inside the container, or the container itself when it is an anchor.
func extractURL(candidate *goquery.Selection, base *url.URL) *string {
	href, exists := candidate.Find("a").First().Attr("href")
	if !exists && goquery.NodeName(candidate) == "a" {
		href, exists = candidate.Attr("href")
	}
	if !exists {
		return nil
	}
	resolved, ok := resolveURL(base, href)
	if !ok {
		return nil
	}
	return &resolved
}
