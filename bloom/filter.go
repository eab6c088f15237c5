// Package bloom deduplicates page URLs with a Bloom filter before they are
// scraped.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is the rate NewSeen uses. A false positive skips
// a page that was never scraped, so the rate is kept low.
const DefaultFalsePositiveRate = 0.001

// Seen remembers which page URLs have been claimed for scraping.
// It is safe for concurrent use.
type Seen struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewSeen creates a Seen sized for n expected URLs.
func NewSeen(n uint) *Seen {
	return NewSeenWithRate(n, DefaultFalsePositiveRate)
}

// NewSeenWithRate creates a Seen sized for n expected URLs with the given
// false positive rate.
func NewSeenWithRate(n uint, fpRate float64) *Seen {
	if n == 0 {
		n = 1
	}
	return &Seen{f: bloom.NewWithEstimates(n, fpRate)}
}

// Claim records rawURL and reports whether it was new. URLs that differ
// only in fragment, scheme or host case, or a trailing slash count as the
// same page.
func (s *Seen) Claim(rawURL string) bool {
	key := Normalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.f.TestOrAddString(key)
}

// Contains reports whether rawURL might have been claimed. False positives
// are possible; false negatives are not.
func (s *Seen) Contains(rawURL string) bool {
	key := Normalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestString(key)
}

// Count returns the approximate number of claimed URLs.
func (s *Seen) Count() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.f.ApproximatedSize())
}

// Normalize returns the dedup key for rawURL. Unparseable input is used as
// is.
func Normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	return u.String()
}
