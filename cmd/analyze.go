package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/pipeline"
)

var analyzeFromStore bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Run the full scrape-and-score pipeline for one facility",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		url := args[0]

		// --cached re-scores a previously stored analysis' facility without
		// hitting the network again.
		if analyzeFromStore {
			stored, err := env.Store.GetAnalysis(ctx, pipeline.NormalizeURL(url))
			if err != nil {
				return eris.Wrap(err, "load stored analysis")
			}
			if stored != nil {
				zap.L().Info("using stored analysis",
					zap.String("url", stored.URL),
					zap.Int("lead_score", stored.LeadScore),
				)
				return printJSON(stored)
			}
			zap.L().Warn("no stored analysis found, running pipeline", zap.String("url", url))
		}

		result, err := env.Pipeline.Run(ctx, url)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("analysis complete",
			zap.String("facility", result.Analysis.FacilityName),
			zap.Int("lead_score", result.Analysis.LeadScore),
			zap.String("urgency", string(result.Analysis.Urgency)),
		)
		return printJSON(result.Analysis)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeFromStore, "cached", false, "return the stored analysis when one exists instead of re-scraping")
	rootCmd.AddCommand(analyzeCmd)
}
