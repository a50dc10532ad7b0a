package extractor

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ProductRecord represents a single listing extracted from a raw page.
// Fields that could not be located in the markup hold the empty string;
// every field is always present in the output schema.
type ProductRecord struct {
	Keyword   string    `json:"keyword"`
	Page      int       `json:"page"`
	Name      string    `json:"product_name"`
	PriceText string    `json:"price_text"`
	Seller    string    `json:"seller"`
	Location  string    `json:"location"`
	Link      string    `json:"product_url"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// AccessorFunc extracts a field value from a matched element
type AccessorFunc func(*goquery.Selection) string

// FallbackFunc extracts a field value from the whole product block when no
// selector in the rule's chain matched
type FallbackFunc func(*goquery.Selection) string

// FieldRule maps a named field to an ordered selector chain and a typed
// accessor. Selectors are tried in order against the product block; the
// first match wins. The optional fallback runs against the block itself.
type FieldRule struct {
	Field     string
	Selectors []string
	Accessor  AccessorFunc
	Fallback  FallbackFunc
}
