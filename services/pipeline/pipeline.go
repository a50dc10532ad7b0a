// Package pipeline wires the ETL stages together: raw page store ->
// extractor -> cleaner -> dataset writer. Each stage returns its output
// structure to the next; no stage reads another's in-progress state.
package pipeline

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"indiamart-etl/config"
	"indiamart-etl/internal/cleaner"
	"indiamart-etl/internal/extractor"
	"indiamart-etl/internal/store"
	"indiamart-etl/internal/writer"
	"indiamart-etl/logger"
	"indiamart-etl/pkg/errors"
)

// Pipeline runs one full ETL pass over the raw page store
type Pipeline struct {
	store     *store.Store
	extractor *extractor.Extractor
	cleaner   *cleaner.Cleaner
	writer    *writer.Writer
	rawCSV    string
	cleanCSV  string
	log       *logger.Logger
}

// Result summarizes a completed ETL run
type Result struct {
	RunID        string
	Pages        int
	PagesSkipped int
	RawRows      int
	Dataset      *cleaner.Dataset
}

// New creates a pipeline from the application configuration
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		store:     store.NewStore(cfg.DataDir),
		extractor: extractor.NewExtractor(linkBase(cfg.SearchBaseURL)),
		cleaner:   cleaner.NewCleaner(),
		writer:    writer.NewWriter(),
		rawCSV:    cfg.RawCSV,
		cleanCSV:  cfg.CleanCSV,
		log:       logger.ForPipeline(),
	}
}

// linkBase reduces the search endpoint to its origin so relative product
// links resolve against the site root
func linkBase(searchURL string) string {
	u, err := url.Parse(searchURL)
	if err != nil {
		return searchURL
	}
	return fmt.Sprintf("%s://%s/", u.Scheme, u.Host)
}

// Run executes the full ETL pass. Pages are processed strictly
// sequentially; a page that fails to parse is skipped and logged, while
// store and writer failures abort the run. An empty store aborts before any
// output file is written.
func (p *Pipeline) Run() (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	log := p.log.WithField("run_id", result.RunID)

	pages, err := p.store.List()
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, errors.NewValidation("pipeline",
			fmt.Sprintf("raw page store %q holds no pages", p.store.Dir()))
	}

	log.Info().Int("pages", len(pages)).Msg("Starting ETL run")

	var records []extractor.ProductRecord
	for _, page := range pages {
		body, err := p.store.Load(page)
		if err != nil {
			return nil, err
		}

		pageRecords, err := p.extractor.Extract(page, body)
		if err != nil {
			result.PagesSkipped++
			log.Warn().
				Err(err).
				Str("path", page.Path).
				Msg("Skipping unparseable page")
			continue
		}

		records = append(records, pageRecords...)
		result.Pages++
	}
	result.RawRows = len(records)

	if err := p.writer.WriteRaw(p.rawCSV, records); err != nil {
		return nil, err
	}

	dataset, err := p.cleaner.Clean(records)
	if err != nil {
		return nil, err
	}
	result.Dataset = dataset

	if err := p.writer.WriteCleaned(p.cleanCSV, dataset); err != nil {
		return nil, err
	}

	log.Info().
		Int("raw_rows", result.RawRows).
		Int("clean_rows", len(dataset.Records)).
		Msg("ETL run finished")

	return result, nil
}

// Summary renders the run statistics as a table for the terminal
func (r *Result) Summary() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("ETL run %s", r.RunID)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"pages processed", r.Pages},
		{"pages skipped", r.PagesSkipped},
		{"raw rows", r.RawRows},
		{"dropped (missing name)", r.Dataset.Dropped},
		{"duplicates removed", r.Dataset.Deduped},
		{"clean rows", len(r.Dataset.Records)},
	})
	t.AppendSeparator()
	for _, col := range []string{"seller", "location", "price_value"} {
		t.AppendRow(table.Row{fmt.Sprintf("missing %s", col), r.Dataset.MissingCounts()[col]})
	}
	return t.Render()
}
