package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

const (
	variantSelectSelector  = "select.variant, select[name*='variant'], select.option, select[name*='option']"
	swatchSelector         = ".swatch, .color-swatch, .size-swatch, [class*='swatch'], [class*='Swatch']"
	swatchActuatorSelector = "a, button, [role='button'], input[type='radio']"
)

// extractVariants collects the options of the first variant dropdown and
// every actuator in swatch containers, in document order. Duplicates are
// kept. The result is nil when nothing was found.
func extractVariants(candidate *goquery.Selection) []prodex.VariantOption {
	variants := selectVariants(candidate)
	return append(variants, swatchVariants(candidate)...)
}

func selectVariants(candidate *goquery.Selection) []prodex.VariantOption {
	dropdown := candidate.Find(variantSelectSelector).First()
	if dropdown.Length() == 0 {
		return nil
	}
	name := firstNonEmpty(attr(dropdown, "name"), "variant")

	var variants []prodex.VariantOption
	dropdown.Find("option").Each(func(_ int, option *goquery.Selection) {
		value := optionValue(option)
		text := strings.TrimSpace(option.Text())
		if isPlaceholderOption(value, text) {
			return
		}
		variants = append(variants, prodex.VariantOption{
			Name:  name,
			Value: text,
			ID:    value,
		})
	})
	return variants
}

// optionValue returns the value an <option> submits: its value attribute,
// or its collapsed text when the attribute is absent.
func optionValue(option *goquery.Selection) string {
	if v, ok := option.Attr("value"); ok {
		return v
	}
	return collapseSpace(option.Text())
}

// isPlaceholderOption reports whether an option is a prompt such as
// "Select" or "choose" rather than a real choice.
func isPlaceholderOption(value, text string) bool {
	return value == "" || value == "choose" || text == "Select"
}

func swatchVariants(candidate *goquery.Selection) []prodex.VariantOption {
	var variants []prodex.VariantOption
	candidate.Find(swatchSelector).Each(func(_ int, container *goquery.Selection) {
		name := "size"
		if strings.Contains(strings.ToLower(attr(container, "class")), "color") {
			name = "color"
		}
		container.Find(swatchActuatorSelector).Each(func(_ int, swatch *goquery.Selection) {
			variants = append(variants, prodex.VariantOption{
				Name: name,
				Value: firstNonEmpty(
					strings.TrimSpace(swatch.Text()),
					attr(swatch, "title"),
					swatchValue(swatch),
					attr(swatch, "data-value"),
				),
				ID: firstNonEmpty(swatchValue(swatch), attr(swatch, "data-value")),
			})
		})
	})
	return variants
}

// swatchValue reads a swatch's value the way the browser reports it: a
// radio or checkbox without a value attribute has the value "on".
func swatchValue(swatch *goquery.Selection) string {
	if v, ok := swatch.Attr("value"); ok {
		return v
	}
	if goquery.NodeName(swatch) == "input" {
		switch strings.ToLower(attr(swatch, "type")) {
		case "radio", "checkbox":
			return "on"
		}
	}
	return ""
}
