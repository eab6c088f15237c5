// Package goquery implements product extraction and page collectors on top
// of goquery documents.
package goquery

import "github.com/PuerkitoBio/goquery"

// Cascade is an ordered list of CSS selectors. Product markup has no single
// convention, so each lookup tries the known conventions in priority order
// and stops at the first one that matches.
type Cascade []string

// FindAll returns every descendant of scope matched by the first selector
// that matches anything. Later selectors are not evaluated. The result is
// empty when no selector matches.
func (c Cascade) FindAll(scope *goquery.Selection) *goquery.Selection {
	for _, selector := range c {
		if found := scope.Find(selector); found.Length() > 0 {
			return found
		}
	}
	return empty(scope)
}

// First returns the first descendant of scope, in document order, matched by
// the first selector that matches anything. The result is empty when no
// selector matches.
func (c Cascade) First(scope *goquery.Selection) *goquery.Selection {
	return c.FindAll(scope).First()
}

// empty returns a selection with no nodes that still belongs to scope's document.
func empty(scope *goquery.Selection) *goquery.Selection {
	return scope.Slice(0, 0)
}
