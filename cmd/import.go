package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/pkg/notion"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import facilities from CSV into the Notion queue",
	Long: `Seeds the Notion facility queue from a CSV export. Each row with a
url, website, or domain column becomes a page with Status = "Queued",
ready for the batch command to pick up. Duplicate URLs are skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" {
			return eris.New("notion token is required (OUTREACH_NOTION_TOKEN)")
		}
		if cfg.Notion.FacilityDB == "" {
			return eris.New("notion facility DB ID is required (OUTREACH_NOTION_FACILITY_DB)")
		}

		notionClient := notion.NewClient(cfg.Notion.Token)

		created, err := notion.ImportCSV(ctx, notionClient, cfg.Notion.FacilityDB, importCSVPath)
		if err != nil {
			return eris.Wrap(err, "import csv")
		}

		zap.L().Info("import complete",
			zap.Int("created", created),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
