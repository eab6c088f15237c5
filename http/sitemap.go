package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/prodex"
)

// DefaultMaxSitemapURLs caps how many page URLs one discovery returns.
// Large catalogs list millions of variants.
const DefaultMaxSitemapURLs = 50000

var _ prodex.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from robots.txt and XML sitemaps.
type SitemapService struct {
	client  *http.Client
	maxURLs int
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithMaxURLs caps the number of URLs DiscoverURLs returns.
func WithMaxURLs(n int) SitemapOption {
	return func(s *SitemapService) {
		s.maxURLs = n
	}
}

// NewSitemapService creates a new SitemapService. A nil client means
// http.DefaultClient.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{client: client, maxURLs: DefaultMaxSitemapURLs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs returns the page URLs listed in the sitemaps of baseURL, in
// sitemap order without duplicates. When baseURL has a path, such as
// https://shop.example/collections/shoes, only URLs under that path are
// returned. A site without sitemaps yields an empty slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *prodex.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, prodex.Errorf(prodex.EINVALID, "invalid base URL %q", baseURL)
	}

	sitemaps, err := s.locateSitemaps(ctx, &url.URL{Scheme: base.Scheme, Host: base.Host})
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:     s,
		prefix:  pathPrefix(base.Path),
		filter:  filter,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		urls:    []string{},
	}
	for _, sm := range sitemaps {
		if w.full() {
			break
		}
		if err := w.visit(ctx, sm); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// locateSitemaps reads Sitemap directives from robots.txt and falls back to
// /sitemap.xml when there are none.
func (s *SitemapService) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robots); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"
	var sitemaps []string
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) <= len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, prodex.Errorf(prodex.EINTERNAL, "reading %s: %v", robotsURL, err)
	}
	return sitemaps, nil
}

// get fetches targetURL and returns its body, transparently gunzipping
// compressed sitemaps.
func (s *SitemapService) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, prodex.Errorf(prodex.EINVALID, "invalid URL %q: %v", targetURL, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, prodex.Errorf(prodex.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	br := bufio.NewReader(resp.Body)
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			resp.Body.Close()
			return nil, prodex.Errorf(prodex.EINVALID, "decompressing %s: %v", targetURL, err)
		}
		return readCloser{Reader: zr, Closer: resp.Body}, nil
	}
	return readCloser{Reader: br, Closer: resp.Body}, nil
}

func (s *SitemapService) exists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// sitemapWalk collects URLs across a tree of sitemaps and sitemap indexes.
type sitemapWalk struct {
	svc     *SitemapService
	prefix  string
	filter  *prodex.URLFilter
	visited map[string]bool
	seen    map[string]bool
	urls    []string
}

func (w *sitemapWalk) full() bool {
	return w.svc.maxURLs > 0 && len(w.urls) >= w.svc.maxURLs
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return prodex.Errorf(prodex.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return prodex.Errorf(prodex.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, loc := range locs(root, "sitemap") {
			if w.full() {
				return nil
			}
			if err := w.visit(ctx, loc); err != nil {
				return err
			}
		}
		return nil
	}

	for _, loc := range locs(root, "url") {
		if w.full() {
			return nil
		}
		w.add(loc)
	}
	return nil
}

func (w *sitemapWalk) add(loc string) {
	if w.seen[loc] || !underPrefix(loc, w.prefix) || !w.filter.Match(loc) {
		return
	}
	w.seen[loc] = true
	w.urls = append(w.urls, loc)
}

// locs returns the trimmed <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var res []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if text := strings.TrimSpace(loc.Text()); text != "" {
				res = append(res, text)
			}
		}
	}
	return res
}

// pathPrefix turns a base URL path into a directory prefix, or "" for the
// site root.
func pathPrefix(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// underPrefix reports whether rawURL lies under prefix. /shoes/ matches
// /shoes and /shoes/runner but not /shoestrings.
func underPrefix(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path+"/", prefix)
}
