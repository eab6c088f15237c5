package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// trimmedText returns the text content of the first element in s with
// surrounding whitespace removed.
func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.First().Text())
}

// visibleText approximates what a browser renders for the first element in
// s: text inside script, style, template and noscript is skipped and runs of
// whitespace collapse to a single space.
func visibleText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(s.Get(0))
	return collapseSpace(b.String())
}

// collapseSpace trims s and replaces every run of whitespace with one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// attr returns the named attribute of the first element in s, or "".
func attr(s *goquery.Selection, name string) string {
	return s.AttrOr(name, "")
}

// firstNonEmpty returns the first argument that is not the empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
