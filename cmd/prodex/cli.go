package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/prodex"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Extractor prodex.ProductExtractor
	Headers   prodex.HeaderCollector
	Metadata  prodex.MetadataCollector

	// Fetcher is set when a command needs to download pages.
	Fetcher prodex.Fetcher

	Sitemaps prodex.SitemapService
	Scraper  prodex.PageScraper

	// Store is set when scrape results go to a directory instead of stdout.
	Store prodex.ResultStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" env:"PRODEX_VERBOSE" help:"Log fetches and extractions to stderr"`
	Fetcher   string        `enum:"auto,http,browser" default:"auto" env:"PRODEX_FETCHER" help:"How to download pages: auto probes the first page, http skips JavaScript, browser renders with Chrome"`
	Timeout   time.Duration `short:"t" default:"10s" env:"PRODEX_TIMEOUT" help:"Fetch timeout per page"`
	NoSandbox bool          `env:"PRODEX_NO_SANDBOX" help:"Run Chrome without its sandbox (needed in some containers)"`

	Extract ExtractCmd `cmd:"" help:"Extract products, headings and metadata from one page"`
	Scrape  ScrapeCmd  `cmd:"" help:"Extract products from many pages, optionally discovered from a sitemap"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source string `arg:"" help:"HTML file, '-' for stdin, or an http(s) URL"`
	URL    string `name:"url" env:"PRODEX_PAGE_URL" help:"Page URL for resolving relative links (defaults to the source when it is a URL)"`
	Only   string `enum:"all,products,headers,metadata" default:"all" help:"Print only one section of the result"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string `arg:"" optional:"" name:"url" help:"Pages to scrape"`
	Sitemap     string   `env:"PRODEX_SITEMAP" help:"Site whose sitemap lists the pages to scrape"`
	Filter      []string `short:"F" name:"filter" help:"Keep sitemap URLs matching regex (repeatable)"`
	Exclude     []string `short:"x" name:"exclude" help:"Drop sitemap URLs matching regex (repeatable)"`
	Concurrency int      `short:"c" default:"3" env:"PRODEX_CONCURRENCY" help:"Concurrent fetch limit"`
	Rate        float64  `default:"1" env:"PRODEX_RATE" help:"Requests per second per domain (0 for unlimited)"`
	Out         string   `short:"o" type:"path" env:"PRODEX_OUT" help:"Write one JSON file per page into this directory instead of stdout"`
}
