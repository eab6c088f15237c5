package goquery

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

var _ prodex.MetadataCollector = (*MetadataCollector)(nil)

// MetadataCollector gathers document-level metadata: meta tags, the
// canonical link, Open Graph and Twitter card tags and JSON-LD blocks.
type MetadataCollector struct{}

// NewMetadataCollector creates a new MetadataCollector.
func NewMetadataCollector() *MetadataCollector {
	return &MetadataCollector{}
}

// CollectMetadata parses html and returns its metadata. The canonical link
// resolves against pageURL.
func (c *MetadataCollector) CollectMetadata(html, pageURL string) (*prodex.Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prodex.Errorf(prodex.EINVALID, "failed to parse HTML: %v", err)
	}
	return CollectMetadata(doc, pageURL), nil
}

// CollectMetadata reads the metadata of an already parsed document.
func CollectMetadata(doc *goquery.Document, pageURL string) *prodex.Metadata {
	md := &prodex.Metadata{
		Description: metaContent(doc, "description"),
		Keywords:    metaContent(doc, "keywords"),
		Author:      metaContent(doc, "author"),
		Canonical:   canonicalURL(doc, pageURL),
		OGTags:      prefixedTags(doc, "meta[property^='og:']", "property", "og:"),
		TwitterTags: prefixedTags(doc, "meta[name^='twitter:']", "name", "twitter:"),
	}

	scripts := doc.Find("script[type='application/ld+json']")
	if scripts.Length() > 0 {
		md.SchemaOrg = []any{}
		scripts.Each(func(_ int, s *goquery.Selection) {
			var v any
			if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
				return
			}
			md.SchemaOrg = append(md.SchemaOrg, v)
		})
	}
	return md
}

// metaContent returns the content of the named meta tag, or nil when the
// tag is missing or empty.
func metaContent(doc *goquery.Document, name string) *string {
	content := attr(doc.Find("meta[name='"+name+"']").First(), "content")
	if content == "" {
		return nil
	}
	return &content
}

// canonicalURL returns the canonical link of doc. A relative href that
// cannot be resolved is returned as written.
func canonicalURL(doc *goquery.Document, pageURL string) *string {
	href := attr(doc.Find("link[rel='canonical']").First(), "href")
	if href == "" {
		return nil
	}
	if resolved, ok := resolveURL(documentBase(doc, pageURL), href); ok {
		href = resolved
	}
	return &href
}

// prefixedTags maps the key attribute of every tag matching selector, with
// prefix removed, to the tag's content. Later tags overwrite earlier ones.
func prefixedTags(doc *goquery.Document, selector, keyAttr, prefix string) map[string]string {
	tags := map[string]string{}
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		key := strings.TrimPrefix(attr(s, keyAttr), prefix)
		tags[key] = attr(s, "content")
	})
	return tags
}
