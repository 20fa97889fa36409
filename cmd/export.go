package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/analyzer"
	"github.com/scrapex/outreach-engine/internal/export"
)

var (
	exportXLSXPath   string
	exportSalesforce bool
	exportLimit      int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored lead analyses",
	Long: `Re-ranks the stored analyses by lead score and exports them: an XLSX
workbook by default, or Salesforce Lead upserts with --salesforce.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		analyses, err := st.ListAnalyses(ctx, exportLimit)
		if err != nil {
			return eris.Wrap(err, "list analyses")
		}
		if len(analyses) == 0 {
			fmt.Fprintln(os.Stderr, "No stored analyses to export.")
			return nil
		}

		ranked := analyzer.Rank(analyses)

		path := exportXLSXPath
		if path == "" && !exportSalesforce {
			path = cfg.Export.XLSXPath
		}
		if path != "" {
			if err := export.WriteXLSX(path, ranked); err != nil {
				return eris.Wrap(err, "write xlsx")
			}
			zap.L().Info("wrote ranked leads",
				zap.String("path", path),
				zap.Int("leads", len(ranked)),
			)
		}

		if exportSalesforce {
			sfClient, err := initSalesforce()
			if err != nil {
				return err
			}
			results, err := export.SyncLeads(ctx, sfClient, ranked)
			if err != nil {
				return eris.Wrap(err, "sync leads")
			}
			zap.L().Info("salesforce sync complete",
				zap.Int("leads", len(ranked)),
				zap.Int("batches", len(results)),
			)
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportXLSXPath, "xlsx", "", "XLSX output path (default from config)")
	exportCmd.Flags().BoolVar(&exportSalesforce, "salesforce", false, "upsert the leads into Salesforce")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max analyses to export (0 = store default)")
	rootCmd.AddCommand(exportCmd)
}
