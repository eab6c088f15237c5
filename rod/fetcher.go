// Package rod renders storefront pages in headless Chrome so products that
// are built client-side are present in the returned HTML.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/prodex"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation plus rendering of one page.
const DefaultFetchTimeout = 10 * time.Second

// DefaultSettleTimeout bounds the wait for product markup after the load
// event.
const DefaultSettleTimeout = 3 * time.Second

// DefaultUserAgent replaces the HeadlessChrome user agent, which many
// storefronts block.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0 Safari/537.36"

// Viewport dimensions used for rendering. Image widths in the returned HTML
// are measured at this size.
const (
	ViewportWidth  = 1920
	ViewportHeight = 1080
)

// contentSelector matches markup whose presence means the page has rendered
// enough to extract from.
const contentSelector = "img, .product, .product-card, .product-item, h1, header"

// stampImageWidthsJS writes each image's rendered width into its width
// attribute so it survives serialization.
const stampImageWidthsJS = `() => {
	for (const img of document.querySelectorAll('img')) {
		img.setAttribute('width', String(img.width));
	}
}`

var _ prodex.Fetcher = (*Fetcher)(nil)

// Fetcher renders pages in a managed headless browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager       *BrowserManager
	timeout       time.Duration
	settleTimeout time.Duration
	userAgent     string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettleTimeout sets how long to wait for product markup after the
// load event. Zero skips the wait.
func WithSettleTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleTimeout = d
	}
}

// WithUserAgent sets the browser user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher launches a browser and returns a Fetcher that renders pages in
// it. Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	return NewFetcherWithManager(nil, opts...)
}

// NewFetcherWithManager returns a Fetcher rendering pages in manager's
// browser. A nil manager launches a new one with default settings.
func NewFetcherWithManager(manager *BrowserManager, opts ...Option) (*Fetcher, error) {
	if manager == nil {
		m, err := NewBrowserManager()
		if err != nil {
			return nil, err
		}
		manager = m
	}
	f := &Fetcher{
		manager:       manager,
		timeout:       DefaultFetchTimeout,
		settleTimeout: DefaultSettleTimeout,
		userAgent:     DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to url, waits for the page to render and returns the
// serialized DOM with rendered image widths stamped in.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	browser, err := f.manager.Browser()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", prodex.Errorf(prodex.EINTERNAL, "opening page: %v", err)
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	html, err := f.render(page.Context(ctx), url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	return html, nil
}

func (f *Fetcher) render(page *rod.Page, url string) (string, error) {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             ViewportWidth,
		Height:            ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", err
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", err
	}
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	if f.settleTimeout > 0 {
		// Pages without any of these still get extracted.
		settle := page.Timeout(f.settleTimeout)
		_, _ = settle.Element(contentSelector)
		settle.CancelTimeout()
	}

	if _, err := page.Eval(stampImageWidthsJS); err != nil {
		return "", err
	}
	return page.HTML()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close shuts the browser down. It is safe to call more than once.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
