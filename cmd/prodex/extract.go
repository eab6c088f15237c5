package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/crawl"
	"github.com/google/uuid"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, err := c.readSource(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errText(err))
		return err
	}

	pageURL := c.URL
	if pageURL == "" && isRemote(c.Source) {
		pageURL = c.Source
	}

	result := &prodex.PageResult{
		ID:          uuid.NewString(),
		URL:         pageURL,
		ContentHash: crawl.ComputeHash(html),
		FetchedAt:   time.Now().UTC(),
	}

	if c.Only == "all" || c.Only == "products" {
		if result.Products, err = deps.Extractor.ExtractProducts(html, pageURL); err != nil {
			return err
		}
	}
	if c.Only == "all" || c.Only == "headers" {
		if result.Headers, err = deps.Headers.CollectHeaders(html); err != nil {
			return err
		}
	}
	if c.Only == "all" || c.Only == "metadata" {
		if result.Metadata, err = deps.Metadata.CollectMetadata(html, pageURL); err != nil {
			return err
		}
	}

	var out any = result
	switch c.Only {
	case "products":
		out = result.Products
	case "headers":
		out = result.Headers
	case "metadata":
		out = result.Metadata
	}
	return writeJSON(deps.Stdout, out)
}

func (c *ExtractCmd) readSource(deps *Dependencies) (string, error) {
	switch {
	case c.Source == "-":
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case isRemote(c.Source):
		if deps.Fetcher == nil {
			return "", prodex.Errorf(prodex.EINTERNAL, "no fetcher configured for %s", c.Source)
		}
		return deps.Fetcher.Fetch(deps.Ctx, c.Source)
	default:
		data, err := os.ReadFile(c.Source)
		if err != nil {
			if os.IsNotExist(err) {
				return "", prodex.Errorf(prodex.ENOTFOUND, "file %q does not exist", c.Source)
			}
			return "", fmt.Errorf("failed to read %s: %w", c.Source, err)
		}
		return string(data), nil
	}
}

// isRemote reports whether source names a page to download rather than a
// local file.
func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
