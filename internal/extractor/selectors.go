package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"indiamart-etl/helpers"
)

// Markup heuristics for IndiaMART listing pages. Product entries are found
// through their detail-page anchors rather than a single card selector, since
// the directory serves several card layouts.
var (
	// anchors pointing at product detail pages
	detailHrefPattern = regexp.MustCompile(`(?i)/proddetail/|/product-detail/|proddetail`)

	// price fallback: first rupee amount or "Ask Price" variant in the block text
	priceTextPattern = regexp.MustCompile(`(?i)(₹\s?[\d,]+(?:\.\d+)?(?:\s*/\s*\w+)?|Ask Price|Ask for Price|Ask)`)

	// location fallback: a capitalized token that looks like a city name
	locationTokenPattern = regexp.MustCompile(`\b([A-Z][a-z]{2,}(?:\s+[A-Z][a-z]{2,})?)\b`)
)

// blockMarkers identify an ancestor element that holds the listing's
// price/seller/location details
var blockMarkers = []string{
	"p.price",
	"div.companyname",
	"div.newLocationUi",
	"span.highlight",
	"div.supplierInfoDiv",
	"p.prc",
	"div.card",
}

// textAccessor returns the element's text with whitespace collapsed
func textAccessor(s *goquery.Selection) string {
	return helpers.CollapseWhitespace(s.Text())
}

// blockRules is the field-extraction table for the product block. Rules are
// evaluated per anchor against its enclosing block; name and link come from
// the anchor itself.
var blockRules = []FieldRule{
	{
		Field: "price_text",
		Selectors: []string{
			"p.price", "p.prc", "span.p_price", "span.price", "div.price", "p.price_info",
		},
		Accessor: textAccessor,
		Fallback: func(block *goquery.Selection) string {
			m := priceTextPattern.FindString(block.Text())
			return helpers.CollapseWhitespace(m)
		},
	},
	{
		Field: "seller",
		Selectors: []string{
			"div.companyname a.cardlinks", "div.companyname a", "a.cardlinks.elps.elps1",
			"div.supplierInfoDiv a", "div.companyname", "span.comp-name", "div.supplierInfoDiv",
		},
		Accessor: textAccessor,
	},
	{
		Field: "location",
		Selectors: []string{
			"div.newLocationUi span.highlight", "span.highlight", "div.supplierLocation", "span.city",
		},
		Accessor: textAccessor,
		Fallback: func(block *goquery.Selection) string {
			m := locationTokenPattern.FindStringSubmatch(helpers.CollapseWhitespace(block.Text()))
			if len(m) < 2 {
				return ""
			}
			return m[1]
		},
	},
}

// isDetailAnchor reports whether an anchor likely points at a product
// detail page
func isDetailAnchor(s *goquery.Selection) bool {
	href, _ := s.Attr("href")
	if detailHrefPattern.MatchString(href) {
		return true
	}
	class := strings.ToLower(s.AttrOr("class", ""))
	return strings.Contains(class, "proddetail") || strings.Contains(class, "cardlinks")
}
