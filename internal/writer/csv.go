// Package writer persists the structured and cleaned tables as CSV files
// for the downstream analysis notebook.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"indiamart-etl/internal/cleaner"
	"indiamart-etl/internal/extractor"
	"indiamart-etl/logger"
	"indiamart-etl/pkg/errors"
)

// RawColumns is the stable column order of the raw structured table
var RawColumns = []string{
	"keyword", "page", "product_name", "price_text", "seller", "location", "product_url", "scraped_at",
}

// CleanColumns is the stable column order of the cleaned table. price_value
// holds the coerced numeric price; the cell is empty when coercion failed.
var CleanColumns = []string{
	"keyword", "product_name", "price_text", "price_value", "seller", "location", "product_url",
}

// Writer serializes datasets to delimited files
type Writer struct {
	log *logger.Logger
}

// NewWriter creates a dataset writer
func NewWriter() *Writer {
	return &Writer{log: logger.ForWriter()}
}

// WriteRaw writes the post-extraction table to path, replacing any existing
// file.
func (w *Writer) WriteRaw(path string, records []extractor.ProductRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Keyword,
			strconv.Itoa(r.Page),
			r.Name,
			r.PriceText,
			r.Seller,
			r.Location,
			r.Link,
			r.ScrapedAt.Format(time.RFC3339),
		})
	}

	if err := w.writeCSV(path, RawColumns, rows); err != nil {
		return err
	}

	w.log.Info().Str("path", path).Int("rows", len(rows)).Msg("Wrote raw table")
	return nil
}

// WriteCleaned writes the cleaned table to path, replacing any existing
// file.
func (w *Writer) WriteCleaned(path string, dataset *cleaner.Dataset) error {
	rows := make([][]string, 0, len(dataset.Records))
	for _, r := range dataset.Records {
		priceValue := ""
		if r.PriceKnown {
			priceValue = strconv.FormatFloat(r.PriceValue, 'f', -1, 64)
		}
		rows = append(rows, []string{
			r.Keyword,
			r.Name,
			r.PriceText,
			priceValue,
			r.Seller,
			r.Location,
			r.Link,
		})
	}

	if err := w.writeCSV(path, CleanColumns, rows); err != nil {
		return err
	}

	w.log.Info().Str("path", path).Int("rows", len(rows)).Msg("Wrote cleaned table")
	return nil
}

// writeCSV creates (or truncates) path and writes a header plus rows
func (w *Writer) writeCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIO("writer", fmt.Sprintf("create output directory %q", dir), err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("writer", fmt.Sprintf("create output file %q", path), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return errors.NewIO("writer", fmt.Sprintf("write header to %q", path), err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return errors.NewIO("writer", fmt.Sprintf("write row to %q", path), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewIO("writer", fmt.Sprintf("flush %q", path), err)
	}
	return nil
}
