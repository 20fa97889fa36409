package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/pipeline"
)

var scrapeAnalyze bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a facility website into a quality-scored record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rec, err := env.Pipeline.Scrape(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "scrape")
		}

		zap.L().Info("facility scraped",
			zap.String("url", rec.URL),
			zap.String("facility", rec.Name),
			zap.Float64("quality_pct", rec.Quality.Percentage),
		)

		if !scrapeAnalyze {
			return printJSON(rec)
		}

		analysis := env.Pipeline.Analyze(ctx, rec)
		return printJSON(pipeline.Result{Facility: rec, Analysis: analysis})
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeAnalyze, "analyze", false, "continue into lead analysis after scraping")
	rootCmd.AddCommand(scrapeCmd)
}
