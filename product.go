package prodex

// Availability is the normalized stock state of a product.
type Availability string

// Availability values. Any other string is never produced.
const (
	AvailabilityUnknown    Availability = "unknown"
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityPreorder   Availability = "preorder"
)

// Valid reports whether a is one of the defined availability values.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityUnknown, AvailabilityInStock, AvailabilityOutOfStock, AvailabilityPreorder:
		return true
	}
	return false
}

// Record defaults applied when a field cannot be extracted.
const (
	DefaultTitle = "Unknown Product"
	DefaultPrice = "N/A"
)

// VariantOption is one selectable variant of a product, such as a size in a
// dropdown or a color swatch.
type VariantOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	ID    string `json:"id"`
}

// ImageAsset is an image found inside a product container. Only URL ends up
// in the Product; the rest drives filtering.
type ImageAsset struct {
	URL string
	Alt string

	// Width and Height are in CSS pixels; SizeUnknown when the markup does
	// not state them.
	Width  int
	Height int
}

// SizeUnknown marks an ImageAsset dimension the markup does not state.
const SizeUnknown = -1

// Product is a normalized product record extracted from one container.
//
// Nullable fields are pointers or nil slices so they serialize as JSON null.
// Images is always non-nil and serializes as an array.
type Product struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Price        string          `json:"price"`
	SalePrice    *string         `json:"sale_price"`
	RegularPrice *string         `json:"regular_price"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Availability Availability    `json:"availability"`
	Variants     []VariantOption `json:"variants"`
	Images       []string        `json:"images"`
	URL          *string         `json:"url"`
}

// ProductExtractor finds product containers in a page and extracts a record
// from each one.
type ProductExtractor interface {
	// ExtractProducts parses rendered HTML and returns at most 20 products in
	// document order. The pageURL resolves relative links and image sources;
	// it may be empty, in which case relative URLs cannot be resolved.
	// Markup problems never produce an error; only unreadable input does.
	ExtractProducts(html string, pageURL string) ([]*Product, error)
}
