// Package pipeline composes scraping, normalization, and lead analysis
// into single-facility runs and bounded concurrent batches.
package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/analyzer"
	"github.com/scrapex/outreach-engine/internal/config"
	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/internal/scraper"
)

// Archiver persists pipeline outputs. store.Store satisfies it; a nil
// Archiver disables persistence entirely.
type Archiver interface {
	SaveFacility(ctx context.Context, rec model.FacilityRecord) error
	SaveAnalysis(ctx context.Context, analysis model.LeadAnalysis) error
	SaveAnalyses(ctx context.Context, analyses []model.LeadAnalysis) error
}

// Result pairs a scraped facility with its lead analysis.
type Result struct {
	Facility *model.FacilityRecord `json:"facility"`
	Analysis *model.LeadAnalysis   `json:"analysis"`
}

// Pipeline runs facilities through scrape, normalize, and analyze.
// Archive failures are logged and absorbed so a flaky database never
// costs a lead.
type Pipeline struct {
	scraper       scraper.Scraper
	analyzer      *analyzer.Analyzer
	archive       Archiver
	maxConcurrent int
}

// New wires a pipeline from its collaborators. archive may be nil.
func New(sc scraper.Scraper, an *analyzer.Analyzer, archive Archiver, cfg config.BatchConfig) *Pipeline {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pipeline{
		scraper:       sc,
		analyzer:      an,
		archive:       archive,
		maxConcurrent: maxConcurrent,
	}
}

// NormalizeURL prepends https:// when the scheme is missing.
func NormalizeURL(url string) string {
	if url == "" || strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

// Scrape fetches and normalizes one facility, archiving the record when a
// store is configured.
func (p *Pipeline) Scrape(ctx context.Context, url string) (*model.FacilityRecord, error) {
	url = NormalizeURL(url)

	raw, err := p.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	rec, err := scraper.Normalize(raw)
	if err != nil {
		return nil, err
	}

	if p.archive != nil {
		if saveErr := p.archive.SaveFacility(ctx, *rec); saveErr != nil {
			zap.L().Warn("pipeline: failed to archive facility",
				zap.String("url", rec.URL), zap.Error(saveErr))
		}
	}
	return rec, nil
}

// Run executes the full pipeline for a single URL: scrape, normalize,
// analyze, archive. Analysis never fails, so only the scrape stage can
// return an error.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	rec, err := p.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	analysis := p.Analyze(ctx, rec)

	zap.L().Info("pipeline: facility processed",
		zap.String("url", rec.URL),
		zap.String("facility", rec.Name),
		zap.Int("lead_score", analysis.LeadScore),
	)
	return &Result{Facility: rec, Analysis: analysis}, nil
}

// Analyze scores an already scraped facility and archives the analysis.
func (p *Pipeline) Analyze(ctx context.Context, rec *model.FacilityRecord) *model.LeadAnalysis {
	analysis := p.analyzer.Analyze(ctx, rec)

	if p.archive != nil {
		if saveErr := p.archive.SaveAnalysis(ctx, *analysis); saveErr != nil {
			zap.L().Warn("pipeline: failed to archive analysis",
				zap.String("url", analysis.URL), zap.Error(saveErr))
		}
	}
	return analysis
}
