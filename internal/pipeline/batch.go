package pipeline

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scrapex/outreach-engine/internal/analyzer"
	"github.com/scrapex/outreach-engine/internal/model"
)

// BatchFailure reports one URL that could not be processed.
type BatchFailure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// BatchResult aggregates a concurrent batch run. Analyses are ranked by
// descending lead score; Failures keep the input order of the bad URLs.
type BatchResult struct {
	Analyses  []model.LeadAnalysis `json:"analyses"`
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Failures  []BatchFailure       `json:"failures,omitempty"`
}

// RunBatch processes URLs concurrently, bounded by the configured batch
// concurrency. Failures are recorded on the result and the remaining URLs
// keep going. Surviving analyses are ranked and archived in one batch
// write so stored rows carry their final rank.
func (p *Pipeline) RunBatch(ctx context.Context, urls []string) *BatchResult {
	out := &BatchResult{Total: len(urls), Analyses: []model.LeadAnalysis{}}
	if len(urls) == 0 {
		return out
	}

	zap.L().Info("pipeline: starting batch",
		zap.Int("urls", len(urls)),
		zap.Int("concurrency", p.maxConcurrent),
	)

	var succeeded, failed atomic.Int64
	analyses := make([]*model.LeadAnalysis, len(urls))
	failures := make([]*BatchFailure, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)

	for i, url := range urls {
		g.Go(func() error {
			res, err := p.Run(gctx, url)
			if err != nil {
				failed.Add(1)
				zap.L().Error("pipeline: facility failed", zap.String("url", url), zap.Error(err))
				failures[i] = &BatchFailure{URL: url, Error: err.Error()}
				return nil // don't abort batch on individual failure
			}
			succeeded.Add(1)
			analyses[i] = res.Analysis
			return nil
		})
	}
	_ = g.Wait()

	collected := make([]model.LeadAnalysis, 0, len(urls))
	for _, a := range analyses {
		if a != nil {
			collected = append(collected, *a)
		}
	}
	for _, f := range failures {
		if f != nil {
			out.Failures = append(out.Failures, *f)
		}
	}

	out.Analyses = analyzer.Rank(collected)
	out.Succeeded = int(succeeded.Load())
	out.Failed = int(failed.Load())

	if p.archive != nil && len(out.Analyses) > 0 {
		if saveErr := p.archive.SaveAnalyses(ctx, out.Analyses); saveErr != nil {
			zap.L().Warn("pipeline: failed to archive ranked batch", zap.Error(saveErr))
		}
	}

	zap.L().Info("pipeline: batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return out
}
