// Package cleaner normalizes extracted product records into the final
// dataset: whitespace and casing cleanup, price coercion, mandatory-field
// filtering and deduplication.
package cleaner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"indiamart-etl/helpers"
	"indiamart-etl/internal/extractor"
	"indiamart-etl/logger"
	"indiamart-etl/pkg/errors"
)

// numberPattern captures the first numeric run in a price string, thousands
// separators included
var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// CleanedRecord is a product record after normalization. PriceKnown=false is
// the documented missing value for prices that could not be coerced; such
// records never carry raw currency text in PriceValue.
type CleanedRecord struct {
	Keyword    string
	Name       string
	Seller     string
	Location   string
	Link       string
	PriceText  string
	PriceValue float64
	PriceKnown bool
}

// Dataset is the ordered, deduplicated output of a cleaning run
type Dataset struct {
	Records []CleanedRecord
	Dropped int // records removed for a missing mandatory name
	Deduped int // exact duplicates removed
}

// MissingCounts reports how many records lack each optional field
func (d *Dataset) MissingCounts() map[string]int {
	counts := map[string]int{
		"seller":      0,
		"location":    0,
		"price_value": 0,
	}
	for _, r := range d.Records {
		if r.Seller == "" {
			counts["seller"]++
		}
		if r.Location == "" {
			counts["location"]++
		}
		if !r.PriceKnown {
			counts["price_value"]++
		}
	}
	return counts
}

// Cleaner transforms extracted records into the cleaned dataset
type Cleaner struct {
	log *logger.Logger
}

// NewCleaner creates a cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{log: logger.ForCleaner()}
}

// Clean normalizes, filters and deduplicates the full record sequence.
// Insertion order is preserved; the first occurrence of a duplicate wins.
// An empty input sequence is a validation error.
func (c *Cleaner) Clean(records []extractor.ProductRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.NewValidation("cleaner", "no records to process")
	}

	dataset := &Dataset{}
	seen := make(map[string]string) // dedup key -> link of first occurrence

	for _, raw := range records {
		rec := normalize(raw)

		if rec.Name == "" {
			dataset.Dropped++
			c.log.Warn().
				Str("link", rec.Link).
				Msg("Dropping record with missing name")
			continue
		}

		// The detail link is deliberately excluded from the dedup key;
		// link-only differences are collapsed and flagged for review.
		key := dedupKey(rec)
		if firstLink, dup := seen[key]; dup {
			dataset.Deduped++
			if firstLink != rec.Link {
				c.log.Warn().
					Str("kept", firstLink).
					Str("collapsed", rec.Link).
					Msg("Duplicate records differ only in detail link")
			}
			continue
		}
		seen[key] = rec.Link

		dataset.Records = append(dataset.Records, rec)
	}

	c.log.Info().
		Int("input", len(records)).
		Int("output", len(dataset.Records)).
		Int("dropped", dataset.Dropped).
		Int("deduped", dataset.Deduped).
		Msg("Cleaned records")

	return dataset, nil
}

// normalize applies whitespace, casing and price coercion to one record
func normalize(raw extractor.ProductRecord) CleanedRecord {
	rec := CleanedRecord{
		Keyword:   helpers.CollapseWhitespace(raw.Keyword),
		Name:      helpers.CollapseWhitespace(raw.Name),
		Seller:    helpers.CollapseWhitespace(raw.Seller),
		Location:  helpers.TitleCase(raw.Location),
		Link:      strings.TrimSpace(raw.Link),
		PriceText: helpers.CollapseWhitespace(raw.PriceText),
	}
	rec.PriceValue, rec.PriceKnown = ParsePrice(rec.PriceText)
	return rec
}

// ParsePrice coerces raw price text into a numeric value, stripping currency
// symbols and thousands separators. "Ask Price" variants, empty text and
// anything without a digit run report ok=false.
func ParsePrice(text string) (value float64, ok bool) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func dedupKey(rec CleanedRecord) string {
	return fmt.Sprintf("%s\x1f%s\x1f%s\x1f%s\x1f%s",
		rec.Keyword, rec.Name, rec.Seller, rec.Location, rec.PriceText)
}
