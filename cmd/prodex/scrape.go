package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/crawl"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	urls, err := c.collectURLs(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errText(err))
		return err
	}
	if len(urls) == 0 {
		return prodex.Errorf(prodex.EINVALID, "no URLs to scrape: pass URLs or --sitemap")
	}

	fmt.Fprintf(deps.Stderr, "Found %d URLs\n", len(urls))

	progress := func(p prodex.ScrapeProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", p.URL, errText(p.Error))
			return
		}
		fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n", p.Completed, p.Total, crawl.TruncateURL(p.URL, 60))
	}

	results, scrapeErr := deps.Scraper.ScrapeAll(deps.Ctx, urls, progress)

	pages, products, failed := 0, 0, 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			continue
		}
		pages++
		products += len(r.Products)
	}

	if deps.Store != nil {
		if err := c.store(deps, results, scrapeErr); err != nil {
			return err
		}
	} else if err := writeJSON(deps.Stdout, results); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stderr, "Scraped %d pages, %d products, %d failed\n", pages, products, failed)
	return scrapeErr
}

func (c *ScrapeCmd) collectURLs(deps *Dependencies) ([]string, error) {
	urls := append([]string{}, c.URLs...)
	if c.Sitemap == "" {
		return urls, nil
	}

	filter, err := prodex.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		return nil, err
	}
	discovered, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, filter)
	if err != nil {
		return nil, err
	}
	return append(urls, discovered...), nil
}

// store saves results and commits them, or discards them all when the
// batch was interrupted.
func (c *ScrapeCmd) store(deps *Dependencies, results []*prodex.PageResult, scrapeErr error) error {
	if scrapeErr != nil || len(results) == 0 {
		_ = deps.Store.Abort()
		if scrapeErr == nil {
			fmt.Fprintln(deps.Stderr, "No pages saved")
		}
		return nil
	}

	saved := 0
	for _, r := range results {
		err := deps.Store.Save(deps.Ctx, r)
		if prodex.ErrorCode(err) == prodex.EINVALID {
			fmt.Fprintf(deps.Stderr, "skip saving %s: %s\n", r.URL, prodex.ErrorMessage(err))
			continue
		}
		if err != nil {
			_ = deps.Store.Abort()
			fmt.Fprintf(deps.Stderr, "error saving %s: %v\n", r.URL, err)
			return err
		}
		saved++
	}
	if saved == 0 {
		_ = deps.Store.Abort()
		fmt.Fprintln(deps.Stderr, "No pages saved")
		return nil
	}
	if err := deps.Store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stderr, "Saved %d pages to %s\n", saved, c.Out)
	return nil
}

// errText returns the message of an application error, or the full text of
// any other error.
func errText(err error) string {
	var e *prodex.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
