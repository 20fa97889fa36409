package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/export"
	"github.com/scrapex/outreach-engine/internal/pipeline"
	"github.com/scrapex/outreach-engine/pkg/notion"
)

var (
	batchFile  string
	batchLimit int
	batchXLSX  string
)

var batchCmd = &cobra.Command{
	Use:   "batch [urls...]",
	Short: "Scrape and rank facilities concurrently",
	Long: `Runs the scrape-analyze pipeline over many facilities and ranks the
survivors by lead score. URLs come from positional arguments, --file
(one URL per line, "-" for stdin), or the Notion facility queue when
neither is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		urls := args
		if len(urls) == 0 && batchFile != "" {
			urls, err = readURLs(batchFile)
			if err != nil {
				return err
			}
		}

		// No explicit URLs: drain the Notion queue.
		var queued []notion.QueuedFacility
		if len(urls) == 0 {
			if env.Notion == nil {
				return eris.New("no URLs given and notion is not configured")
			}
			queued, err = notion.QueryQueuedFacilities(ctx, env.Notion, cfg.Notion.FacilityDB)
			if err != nil {
				return eris.Wrap(err, "query queued facilities")
			}
			for _, q := range queued {
				urls = append(urls, q.URL)
			}
		}

		if batchLimit > 0 && len(urls) > batchLimit {
			urls = urls[:batchLimit]
			if len(queued) > batchLimit {
				queued = queued[:batchLimit]
			}
		}
		if len(urls) == 0 {
			zap.L().Info("no facilities queued")
			return nil
		}

		result := env.Pipeline.RunBatch(ctx, urls)

		if env.Notion != nil && len(queued) > 0 {
			markQueue(ctx, env.Notion, queued, result)
		}

		if batchXLSX != "" {
			if err := export.WriteXLSX(batchXLSX, result.Analyses); err != nil {
				return eris.Wrap(err, "write xlsx")
			}
			zap.L().Info("wrote ranked leads",
				zap.String("path", batchXLSX),
				zap.Int("leads", len(result.Analyses)),
			)
		}

		return printJSON(result)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", `file with one URL per line ("-" for stdin)`)
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of facilities to process (0 = no limit)")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "also write the ranked leads to an XLSX workbook")
	rootCmd.AddCommand(batchCmd)
}

// readURLs loads one URL per line, skipping blank lines and # comments.
// Path "-" reads stdin.
func readURLs(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "batch: open url file %s", path)
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "batch: read urls")
	}
	return urls, nil
}

// markQueue writes batch outcomes back to the Notion queue pages. Update
// failures are logged and absorbed — queue bookkeeping never fails a batch.
func markQueue(ctx context.Context, client notion.Client, queued []notion.QueuedFacility, result *pipeline.BatchResult) {
	failed := make(map[string]string, len(result.Failures))
	for _, f := range result.Failures {
		failed[f.URL] = f.Error
	}
	scores := make(map[string]int, len(result.Analyses))
	for _, a := range result.Analyses {
		scores[a.URL] = a.LeadScore
	}

	for _, q := range queued {
		log := zap.L().With(zap.String("facility", q.Name), zap.String("url", q.URL))

		// Failures record the URL as queued; analyses carry the normalized
		// form the scraper actually fetched.
		if cause, ok := failed[q.URL]; ok {
			if err := notion.MarkFailed(ctx, client, q.PageID, eris.New(cause)); err != nil {
				log.Warn("failed to update notion status to Failed", zap.Error(err))
			}
			continue
		}
		score, ok := scores[pipeline.NormalizeURL(q.URL)]
		if !ok {
			continue // trimmed by --limit, leave the page queued
		}
		if err := notion.MarkAnalyzed(ctx, client, q.PageID, score); err != nil {
			log.Warn("failed to update notion status to Analyzed", zap.Error(err))
		}
	}
}
