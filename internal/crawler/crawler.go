// Package crawler implements the sequential fetch-and-save loop that fills
// the raw page store. One keyword, pages 1..N, a fixed polite delay between
// requests. Fetch failures skip the page and the run continues; bodies are
// saved even for non-200 responses so failures can be inspected later.
package crawler

import (
	"context"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/go-resty/resty/v2"

	"indiamart-etl/internal/store"
	"indiamart-etl/logger"
	"indiamart-etl/pkg/errors"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
}

// Fetcher fetches listing pages and saves them into the raw page store
type Fetcher struct {
	client *resty.Client
	store  *store.Store
	delay  time.Duration
	log    *logger.Logger
	rnd    *mathrand.Rand
}

// NewFetcher creates a fetcher for the given search endpoint
func NewFetcher(baseURL string, timeout, delay time.Duration, st *store.Store) *Fetcher {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &Fetcher{
		client: client,
		store:  st,
		delay:  delay,
		log:    logger.ForCrawler(),
		rnd:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// CrawlKeyword fetches pages 1..pages for keyword, saving each into the
// store. It returns the number of pages saved. Transport errors are
// page-level: logged, skipped, never fatal.
func (f *Fetcher) CrawlKeyword(ctx context.Context, keyword string, pages int) (int, error) {
	saved := 0
	for page := 1; page <= pages; page++ {
		if err := f.fetchPage(ctx, keyword, page); err != nil {
			f.log.Warn().
				Err(err).
				Str("keyword", keyword).
				Int("page", page).
				Msg("Skipping page after fetch failure")
		} else {
			saved++
		}

		if page < pages {
			select {
			case <-ctx.Done():
				return saved, ctx.Err()
			case <-time.After(f.delay):
			}
		}
	}

	f.log.Info().
		Str("keyword", keyword).
		Int("pages", pages).
		Int("saved", saved).
		Msg("Crawl finished")

	return saved, nil
}

// fetchPage fetches a single search result page and saves its body
func (f *Fetcher) fetchPage(ctx context.Context, keyword string, page int) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgents[f.rnd.Intn(len(userAgents))]).
		SetQueryParams(map[string]string{
			"ss": keyword,
			"pg": fmt.Sprintf("%d", page),
		}).
		Get("")
	if err != nil {
		return errors.NewNetwork("crawler",
			fmt.Sprintf("fetch keyword %q page %d", keyword, page), err)
	}

	if resp.StatusCode() != 200 {
		f.log.Warn().
			Int("status", resp.StatusCode()).
			Str("keyword", keyword).
			Int("page", page).
			Msg("Non-200 response, saving body anyway")
	}

	path, err := f.store.Save(keyword, page, resp.Body())
	if err != nil {
		return err
	}

	f.log.Debug().Str("path", path).Msg("Saved raw page")
	return nil
}
