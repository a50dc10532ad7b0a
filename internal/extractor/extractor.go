// Package extractor parses saved listing pages into product records.
// Extraction is anchor-driven: detail-page links are located first, then
// each anchor's enclosing product block is searched with a declarative
// field-extraction table. A page that yields no anchors produces zero
// records without error; only a document that cannot be parsed as HTML
// fails, and such failures are page-level.
package extractor

import (
	"bytes"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"indiamart-etl/helpers"
	"indiamart-etl/internal/store"
	"indiamart-etl/logger"
	"indiamart-etl/pkg/errors"
)

// maxAncestorClimb bounds the search for a product block around an anchor
const maxAncestorClimb = 6

// Extractor turns raw listing pages into product records
type Extractor struct {
	baseURL string
	rules   []FieldRule
	log     *logger.Logger
}

// NewExtractor creates an extractor resolving relative links against baseURL
func NewExtractor(baseURL string) *Extractor {
	return &Extractor{
		baseURL: baseURL,
		rules:   blockRules,
		log:     logger.ForExtractor(),
	}
}

// Extract parses one raw page into its product records. Records are emitted
// in document order; anchors resolving to a link already seen on the same
// page are skipped, as are anchors without a usable link.
func (e *Extractor) Extract(page store.RawPage, body []byte) ([]ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewParse("extractor",
			fmt.Sprintf("parse page %q", page.Path), err)
	}

	anchors := e.findDetailAnchors(doc)
	e.log.Debug().
		Str("keyword", page.Keyword).
		Int("page", page.Page).
		Int("anchors", len(anchors)).
		Msg("Found product anchors")

	scrapedAt := time.Now().UTC()
	seen := make(map[string]struct{})
	var records []ProductRecord

	for _, a := range anchors {
		link := helpers.ResolveURL(e.baseURL, a.AttrOr("href", ""))
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		block := ancestorBlock(a)
		rec := ProductRecord{
			Keyword:   page.Keyword,
			Page:      page.Page,
			Name:      anchorTitle(a),
			Link:      link,
			ScrapedAt: scrapedAt,
		}
		e.applyRules(block, &rec)

		records = append(records, rec)
	}

	return records, nil
}

// findDetailAnchors collects anchors that likely point at product detail
// pages, falling back to cardlinks-class anchors when the heuristics find
// nothing.
func (e *Extractor) findDetailAnchors(doc *goquery.Document) []*goquery.Selection {
	var anchors []*goquery.Selection
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if isDetailAnchor(s) {
			anchors = append(anchors, s)
		}
	})
	return anchors
}

// applyRules runs the field-extraction table against a product block
func (e *Extractor) applyRules(block *goquery.Selection, rec *ProductRecord) {
	for _, rule := range e.rules {
		value := ""
		for _, sel := range rule.Selectors {
			hit := block.Find(sel).First()
			if hit.Length() == 0 {
				continue
			}
			value = rule.Accessor(hit)
			if value != "" {
				break
			}
		}
		if value == "" && rule.Fallback != nil {
			value = rule.Fallback(block)
		}

		switch rule.Field {
		case "price_text":
			rec.PriceText = value
		case "seller":
			rec.Seller = value
		case "location":
			rec.Location = value
		}
	}
}

// anchorTitle extracts a product name from the anchor: its text first, then
// title and aria-label attributes
func anchorTitle(a *goquery.Selection) string {
	if title := helpers.CollapseWhitespace(a.Text()); title != "" {
		return title
	}
	if title := helpers.CollapseWhitespace(a.AttrOr("title", "")); title != "" {
		return title
	}
	return helpers.CollapseWhitespace(a.AttrOr("aria-label", ""))
}

// ancestorBlock climbs from the anchor looking for the enclosing element
// that carries price/seller/location markup, falling back to the anchor's
// parent.
func ancestorBlock(a *goquery.Selection) *goquery.Selection {
	node := a
	for i := 0; i < maxAncestorClimb; i++ {
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
		for _, marker := range blockMarkers {
			if node.Find(marker).Length() > 0 {
				return node
			}
		}
	}

	if parent := a.Parent(); parent.Length() > 0 {
		return parent
	}
	return a
}
