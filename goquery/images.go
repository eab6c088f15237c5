package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

// MinImageWidth is the widest an image can be and still be dropped as an
// icon, badge or tracking pixel. Only a stated width is compared: an image
// with no width attribute or inline style width is kept, so static markup
// can let a tracking pixel through. Pages fetched with the rod fetcher carry
// rendered widths and are filtered fully.
const MinImageWidth = 50

var (
	styleWidthPattern  = regexp.MustCompile(`(?i)(?:^|;)\s*width\s*:\s*([\d.]+)px`)
	styleHeightPattern = regexp.MustCompile(`(?i)(?:^|;)\s*height\s*:\s*([\d.]+)px`)
)

// imageSourceAttrs lists where lazy loaders keep the real image URL.
var imageSourceAttrs = []string{"src", "data-src", "data-lazy-src"}

// collectImages returns every image inside the candidate in document order.
// Images without alt text are labelled after the product they belong to.
func collectImages(candidate *goquery.Selection, index int, base *url.URL) []prodex.ImageAsset {
	var images []prodex.ImageAsset
	candidate.Find("img").Each(func(_ int, img *goquery.Selection) {
		var src string
		for _, name := range imageSourceAttrs {
			if src = strings.TrimSpace(attr(img, name)); src != "" {
				break
			}
		}
		if src != "" {
			if resolved, ok := resolveURL(base, src); ok {
				src = resolved
			}
		}
		images = append(images, prodex.ImageAsset{
			URL:    src,
			Alt:    firstNonEmpty(attr(img, "alt"), fmt.Sprintf("Product image %d", index)),
			Width:  imageDimension(img, "width", styleWidthPattern),
			Height: imageDimension(img, "height", styleHeightPattern),
		})
	})
	return images
}

// imageDimension reads a size from the named attribute, else from the
// inline style. It returns prodex.SizeUnknown when neither states one.
func imageDimension(img *goquery.Selection, name string, stylePattern *regexp.Regexp) int {
	if v, ok := parsePixels(attr(img, name)); ok {
		return v
	}
	if m := stylePattern.FindStringSubmatch(attr(img, "style")); m != nil {
		if v, ok := parsePixels(m[1]); ok {
			return v
		}
	}
	return prodex.SizeUnknown
}

func parsePixels(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int(f), true
}

// imageURLs keeps the URLs of images that look like product photos.
func imageURLs(images []prodex.ImageAsset) []string {
	urls := []string{}
	for _, img := range images {
		if img.URL == "" || strings.Contains(img.URL, "placeholder") {
			continue
		}
		if img.Width != prodex.SizeUnknown && img.Width <= MinImageWidth {
			continue
		}
		urls = append(urls, img.URL)
	}
	return urls
}
