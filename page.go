package prodex

import (
	"context"
	"time"
)

// Headers maps a heading tag name (H1 through H6) to the visible text of
// the last heading of that level in the document.
type Headers map[string]string

// Metadata holds the page-level metadata a storefront usually publishes for
// crawlers: standard meta tags, Open Graph, Twitter cards and Schema.org
// JSON-LD payloads.
type Metadata struct {
	Description *string `json:"description"`
	Keywords    *string `json:"keywords"`
	Author      *string `json:"author"`
	Canonical   *string `json:"canonical"`

	// OGTags and TwitterTags are keyed by the property with its "og:" or
	// "twitter:" prefix removed.
	OGTags      map[string]string `json:"og_tags"`
	TwitterTags map[string]string `json:"twitter_tags"`

	// SchemaOrg is nil when the page has no JSON-LD scripts. Scripts that
	// fail to parse are left out.
	SchemaOrg []any `json:"schema_org"`
}

// HeaderCollector collects the heading structure of a page.
type HeaderCollector interface {
	CollectHeaders(html string) (Headers, error)
}

// MetadataCollector collects page metadata. The pageURL resolves a relative
// canonical link.
type MetadataCollector interface {
	CollectMetadata(html string, pageURL string) (*Metadata, error)
}

// PageResult is everything extracted from a single page.
type PageResult struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	ContentHash string     `json:"content_hash"`
	FetchedAt   time.Time  `json:"fetched_at"`
	Products    []*Product `json:"products"`
	Headers     Headers    `json:"headers"`
	Metadata    *Metadata  `json:"metadata"`

	// Error is set when the page could not be fetched; the extraction
	// fields are then empty.
	Error string `json:"error,omitempty"`
}

// ScrapeProgress reports progress while a batch of pages is processed.
type ScrapeProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// ScrapeProgressFunc is called as pages are processed.
type ScrapeProgressFunc func(ScrapeProgress)

// PageScraper fetches pages and runs every extractor over them.
// Implementations hide HTTP vs browser selection, retry logic,
// rate limiting and concurrency.
type PageScraper interface {
	// ScrapeAll returns one result per distinct URL in input order. A page
	// that fails to fetch yields a result with Error set rather than
	// aborting the batch.
	ScrapeAll(ctx context.Context, urls []string, progress ScrapeProgressFunc) ([]*PageResult, error)
}

// ResultStore persists page results with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type ResultStore interface {
	Save(ctx context.Context, result *PageResult) error
	Commit() error
	Abort() error
}
