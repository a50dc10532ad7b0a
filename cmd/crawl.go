package cmd

import (
	"github.com/spf13/cobra"

	"indiamart-etl/internal/crawler"
	"indiamart-etl/internal/store"
)

var (
	crawlKeyword string
	crawlPages   int
)

func init() {
	crawlCmd.Flags().StringVarP(&crawlKeyword, "keyword", "k", "", "Search keyword (e.g. electronics, furniture)")
	crawlCmd.Flags().IntVarP(&crawlPages, "pages", "p", 3, "Number of result pages to fetch")
	crawlCmd.MarkFlagRequired("keyword")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl --keyword <keyword> [--pages <n>]",
	Short: "Fetches listing pages for a keyword into the raw page store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st := store.NewStore(cfg.DataDir)
		fetcher := crawler.NewFetcher(cfg.SearchBaseURL, cfg.HTTPTimeout, cfg.CrawlDelay, st)

		_, err = fetcher.CrawlKeyword(cmd.Context(), crawlKeyword, crawlPages)
		return err
	},
}
