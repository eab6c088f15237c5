package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

const availabilitySelector = "[itemprop='availability'], .availability, .stock, [class*='stock'], [class*='Stock']"

// availabilityRule maps phrases found in stock markers to an availability.
// Rules are checked in order and the first rule with a matching phrase wins.
type availabilityRule struct {
	availability prodex.Availability
	phrases      []string
}

var textAvailabilityRules = []availabilityRule{
	{prodex.AvailabilityInStock, []string{"in stock", "available"}},
	{prodex.AvailabilityOutOfStock, []string{"out of stock", "sold out"}},
	{prodex.AvailabilityPreorder, []string{"preorder", "pre-order"}},
}

// schemaAvailabilityRules match schema.org ItemAvailability URLs, which
// microdata puts in href or content rather than in the element text.
var schemaAvailabilityRules = []availabilityRule{
	{prodex.AvailabilityInStock, []string{"schema.org/instock", "schema.org/limitedavailability", "schema.org/instoreonly", "schema.org/onlineonly"}},
	{prodex.AvailabilityOutOfStock, []string{"schema.org/outofstock", "schema.org/soldout", "schema.org/discontinued"}},
	{prodex.AvailabilityPreorder, []string{"schema.org/preorder", "schema.org/presale"}},
}

func extractAvailability(candidate *goquery.Selection) prodex.Availability {
	marker := candidate.Find(availabilitySelector).First()
	if marker.Length() == 0 {
		return prodex.AvailabilityUnknown
	}
	if a := classifyAvailability(marker.Text(), textAvailabilityRules); a != prodex.AvailabilityUnknown {
		return a
	}
	return classifyAvailability(attr(marker, "href")+" "+attr(marker, "content"), schemaAvailabilityRules)
}

func classifyAvailability(text string, rules []availabilityRule) prodex.Availability {
	text = strings.ToLower(text)
	for _, rule := range rules {
		for _, phrase := range rule.phrases {
			if strings.Contains(text, phrase) {
				return rule.availability
			}
		}
	}
	return prodex.AvailabilityUnknown
}
