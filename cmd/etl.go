package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"indiamart-etl/services/pipeline"
)

func init() {
	rootCmd.AddCommand(etlCmd)
}

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Extracts, cleans and writes the product tables from saved pages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
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
