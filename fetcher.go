package prodex

import "context"

// Fetcher downloads a storefront page and returns its HTML.
//
// The http implementation returns the markup as served; the rod
// implementation returns the DOM after scripts have run, which is what
// client-rendered catalogs need before any product can be found.
type Fetcher interface {
	// Fetch returns the HTML of the page at url decoded to UTF-8. A page
	// that does not exist is reported as ENOTFOUND.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases held resources such as a browser process.
	Close() error
}

// DomainLimiter spaces out requests to the same shop.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
