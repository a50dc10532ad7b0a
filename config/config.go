package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Raw page store and output locations
	DataDir  string
	RawCSV   string
	CleanCSV string

	// Crawler configuration
	SearchBaseURL string
	CrawlDelay    time.Duration
	HTTPTimeout   time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	crawlDelay, _ := strconv.Atoi(getEnv("CRAWL_DELAY_SECONDS", "2"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "20"))

	return &Config{
		DataDir:       getEnv("DATA_DIR", "data"),
		RawCSV:        getEnv("RAW_CSV", "data/products.csv"),
		CleanCSV:      getEnv("CLEAN_CSV", "data/products_clean.csv"),
		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://dir.indiamart.com/search.mp"),
		CrawlDelay:    time.Duration(crawlDelay) * time.Second,
		HTTPTimeout:   time.Duration(httpTimeout) * time.Second,
		Environment:   getEnv("ETL_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.RawCSV == "" || c.CleanCSV == "" {
		return fmt.Errorf("RAW_CSV and CLEAN_CSV must not be empty")
	}
	if _, err := url.ParseRequestURI(c.SearchBaseURL); err != nil {
		return fmt.Errorf("SEARCH_BASE_URL is not a valid URL: %w", err)
	}
	if c.CrawlDelay < 0 {
		return fmt.Errorf("CRAWL_DELAY_SECONDS must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
