package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"indiamart-etl/internal/crawler"
	"indiamart-etl/internal/store"
	"indiamart-etl/services/pipeline"
)

var (
	runKeyword string
	runPages   int
)

func init() {
	runCmd.Flags().StringVarP(&runKeyword, "keyword", "k", "", "Search keyword (e.g. electronics, furniture)")
	runCmd.Flags().IntVarP(&runPages, "pages", "p", 3, "Number of result pages to fetch")
	runCmd.MarkFlagRequired("keyword")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run --keyword <keyword> [--pages <n>]",
	Short: "Crawls a keyword and then runs the full ETL pass.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st := store.NewStore(cfg.DataDir)
		fetcher := crawler.NewFetcher(cfg.SearchBaseURL, cfg.HTTPTimeout, cfg.CrawlDelay, st)
		if _, err := fetcher.CrawlKeyword(cmd.Context(), runKeyword, runPages); err != nil {
			return err
		}

		result, err := pipeline.New(cfg).Run()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
		return nil
	},
}
