package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indiamart-etl/internal/extractor"
	"indiamart-etl/pkg/errors"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		text     string
		expected float64
		known    bool
	}{
		{"₹1,200", 1200, true},
		{"₹ 1,200 / Piece", 1200, true},
		{"₹ 2,340.50 / Kg", 2340.50, true},
		{"450", 450, true},
		{"Ask Price", 0, false},
		{"Ask for Price", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		value, known := ParsePrice(tc.text)
		assert.Equal(t, tc.known, known, "input %q", tc.text)
		assert.Equal(t, tc.expected, value, "input %q", tc.text)
	}
}

func TestCleanNormalizesFields(t *testing.T) {
	c := NewCleaner()

	dataset, err := c.Clean([]extractor.ProductRecord{
		{
			Keyword:   "pipes",
			Name:      "  Steel   Pipe ",
			PriceText: "₹1,200",
			Seller:    " ABC  Co ",
			Location:  "NEW delhi",
			Link:      "https://dir.indiamart.com/proddetail/p1.html",
		},
	})
	require.NoError(t, err)
	require.Len(t, dataset.Records, 1)

	rec := dataset.Records[0]
	assert.Equal(t, "Steel Pipe", rec.Name)
	assert.Equal(t, "ABC Co", rec.Seller)
	assert.Equal(t, "New Delhi", rec.Location)
	assert.Equal(t, 1200.0, rec.PriceValue)
	assert.True(t, rec.PriceKnown)
}

func TestCleanEmptyInputIsValidationError(t *testing.T) {
	c := NewCleaner()

	_, err := c.Clean(nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestCleanDropsRecordsWithoutName(t *testing.T) {
	c := NewCleaner()

	dataset, err := c.Clean([]extractor.ProductRecord{
		{Name: "   ", Link: "https://x/1", PriceText: "₹10"},
		{Name: "Kept", Link: "https://x/2", PriceText: "₹20"},
	})
	require.NoError(t, err)
	assert.Len(t, dataset.Records, 1)
	assert.Equal(t, 1, dataset.Dropped)
	assert.Equal(t, "Kept", dataset.Records[0].Name)
}

func TestCleanDeduplicatesAcrossPages(t *testing.T) {
	c := NewCleaner()

	// identical record extracted from page A and page B
	rec := extractor.ProductRecord{
		Keyword:   "pipes",
		Name:      "Steel Pipe",
		PriceText: "₹1,200",
		Seller:    "ABC Co",
		Link:      "https://dir.indiamart.com/p/1",
	}
	other := rec
	other.Page = 2

	dataset, err := c.Clean([]extractor.ProductRecord{rec, other})
	require.NoError(t, err)
	require.Len(t, dataset.Records, 1)
	assert.Equal(t, 1, dataset.Deduped)
	assert.Equal(t, 1200.0, dataset.Records[0].PriceValue)
}

func TestCleanLinkOnlyDifferenceCollapses(t *testing.T) {
	c := NewCleaner()

	a := extractor.ProductRecord{
		Keyword: "pipes", Name: "Steel Pipe", PriceText: "₹1,200",
		Seller: "ABC Co", Link: "https://x/p/1",
	}
	b := a
	b.Link = "https://x/p/2"

	dataset, err := c.Clean([]extractor.ProductRecord{a, b})
	require.NoError(t, err)
	// full-row equality excluding the link is the dedup key; the first
	// occurrence wins and the collapse is flagged in the log
	require.Len(t, dataset.Records, 1)
	assert.Equal(t, "https://x/p/1", dataset.Records[0].Link)
}

func TestCleanIsIdempotent(t *testing.T) {
	c := NewCleaner()

	input := []extractor.ProductRecord{
		{Name: "Steel Pipe", PriceText: "₹1,200", Seller: "ABC Co", Link: "https://x/1"},
		{Name: "Steel Pipe", PriceText: "₹1,200", Seller: "ABC Co", Link: "https://x/1"},
		{Name: "Copper Wire", PriceText: "Ask Price", Seller: "XYZ", Link: "https://x/2"},
	}

	first, err := c.Clean(input)
	require.NoError(t, err)
	require.Len(t, first.Records, 2)

	// feed the cleaner's own output back through it
	var again []extractor.ProductRecord
	for _, r := range first.Records {
		again = append(again, extractor.ProductRecord{
			Keyword:   r.Keyword,
			Name:      r.Name,
			PriceText: r.PriceText,
			Seller:    r.Seller,
			Location:  r.Location,
			Link:      r.Link,
		})
	}

	second, err := c.Clean(again)
	require.NoError(t, err)
	assert.Len(t, second.Records, len(first.Records))
	assert.Equal(t, 0, second.Deduped)
	assert.Equal(t, 0, second.Dropped)
}

func TestMissingCounts(t *testing.T) {
	c := NewCleaner()

	dataset, err := c.Clean([]extractor.ProductRecord{
		{Name: "A", PriceText: "₹10", Seller: "S", Location: "Pune", Link: "https://x/1"},
		{Name: "B", PriceText: "Ask Price", Link: "https://x/2"},
	})
	require.NoError(t, err)

	counts := dataset.MissingCounts()
	assert.Equal(t, 1, counts["seller"])
	assert.Equal(t, 1, counts["location"])
	assert.Equal(t, 1, counts["price_value"])
}
