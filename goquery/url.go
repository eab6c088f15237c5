package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// documentBase returns the URL relative references in doc resolve against:
// the page URL, overridden by a <base href> element. It returns nil when
// neither yields an absolute URL.
func documentBase(doc *goquery.Document, pageURL string) *url.URL {
	var base *url.URL
	if u, err := url.Parse(strings.TrimSpace(pageURL)); err == nil && u.IsAbs() {
		base = u
	}

	href, exists := doc.Find("base[href]").First().Attr("href")
	if !exists {
		return base
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return base
	}
	if base != nil {
		return base.ResolveReference(ref)
	}
	if ref.IsAbs() {
		return ref
	}
	return nil
}

// resolveURL resolves href against base. Without a base only absolute
// references resolve. The bool result is false when href cannot be turned
// into an absolute URL.
func resolveURL(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	if base != nil {
		return base.ResolveReference(ref).String(), true
	}
	if ref.IsAbs() {
		return ref.String(), true
	}
	return "", false
}
