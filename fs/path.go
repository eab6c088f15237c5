// Package fs stores scrape results as JSON files on disk.
package fs

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/prodex"
)

// URLToPath converts a page URL to a relative file path under a directory
// named after the host. Query strings are folded into a short hash so
// paginated listings get distinct files.
//
//	https://shop.example/shoes/trail         → shop.example/shoes/trail.json
//	https://shop.example/shoes/?page=2       → shop.example/shoes/index-<hash>.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", prodex.Errorf(prodex.EINVALID, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return "", prodex.Errorf(prodex.EINVALID, "URL %q has no host", rawURL)
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return "", prodex.Errorf(prodex.EINVALID, "path traversal in URL %q", rawURL)
		}
	}

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	if u.RawQuery != "" {
		p += fmt.Sprintf("-%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}

	return path.Join(strings.ToLower(u.Host), p) + ".json", nil
}
