package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxCandidates caps how many product containers are extracted from a page.
const MaxCandidates = 20

// containerCascade lists the product container conventions, most specific first.
var containerCascade = Cascade{
	".product",
	".product-card",
	".product-item",
	".product-container",
	"[data-product-id]",
	".item-product",
	"product",
	"[class*='ProductImage']",
	"[class*='product-image']",
	"[class*='productImage']",
	"[class*='imageContainer']",
}

// currencySymbols are the symbols that mark text as a price.
const currencySymbols = "$€₹"

// decimalPricePattern matches amounts with two decimal places such as 15.00.
var decimalPricePattern = regexp.MustCompile(`\d+\.\d{2}`)

// DiscoverCandidates returns the elements of doc that most likely represent
// individual products, at most MaxCandidates of them in document order.
//
// Known container conventions are tried first. Only when none of them
// matches is every element scanned for the image-plus-price structure,
// which is far more expensive.
func DiscoverCandidates(doc *goquery.Document) *goquery.Selection {
	candidates := containerCascade.FindAll(doc.Selection)
	if candidates.Length() == 0 {
		candidates = structuralCandidates(doc.Selection)
	}
	if candidates.Length() > MaxCandidates {
		candidates = candidates.Slice(0, MaxCandidates)
	}
	return candidates
}

// structuralCandidates visits every element under root and keeps those that
// contain an image and something that looks like a price. Ancestors of a
// product block qualify as well.
func structuralCandidates(root *goquery.Selection) *goquery.Selection {
	return root.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return looksLikeProduct(s)
	})
}

func looksLikeProduct(s *goquery.Selection) bool {
	if s.Find("img").Length() == 0 {
		return false
	}
	text := s.Text()
	return strings.ContainsAny(text, currencySymbols) ||
		decimalPricePattern.MatchString(text) ||
		s.Find(".price").Length() > 0
}
