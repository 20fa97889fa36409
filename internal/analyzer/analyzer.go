// Package analyzer scores facility records as sales leads. It asks the AI
// collaborator for a structured assessment when one is configured and
// degrades to deterministic baseline scoring when the collaborator is
// absent or failing. Analysis never raises past its own boundary: every
// failure path still yields a fully populated LeadAnalysis.
package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/config"
	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/anthropic"
)

const (
	defaultModel           = "claude-haiku-4-5-20251001"
	defaultMaxTokens       = 1500
	defaultScriptMaxTokens = 500
)

// Analyzer turns normalized facility records into scored lead analyses.
type Analyzer struct {
	client          anthropic.Client // nil routes everything through Baseline
	modelID         string
	maxTokens       int64
	scriptMaxTokens int64
}

// NewAnalyzer creates an analyzer. A nil client is allowed and sends every
// facility through the baseline scorer.
func NewAnalyzer(client anthropic.Client, cfg config.AnthropicConfig) *Analyzer {
	modelID := cfg.Model
	if modelID == "" {
		modelID = defaultModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	scriptMaxTokens := int64(cfg.ScriptMaxTokens)
	if scriptMaxTokens <= 0 {
		scriptMaxTokens = defaultScriptMaxTokens
	}

	return &Analyzer{
		client:          client,
		modelID:         modelID,
		maxTokens:       maxTokens,
		scriptMaxTokens: scriptMaxTokens,
	}
}

// Analyze scores a single facility for revenue opportunities and
// operational gaps. Collaborator failures are absorbed: the result degrades
// to baseline scoring rather than surfacing an error.
func (a *Analyzer) Analyze(ctx context.Context, rec *model.FacilityRecord) *model.LeadAnalysis {
	log := zap.L().With(zap.String("facility", rec.Name))

	if a.client == nil {
		log.Warn("AI client not configured, using baseline scoring")
		return Baseline(rec)
	}

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.modelID,
		MaxTokens: a.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: buildAnalysisPrompt(rec)}},
	})
	if err != nil {
		log.Error("analysis request failed, using baseline scoring", zap.Error(err))
		return Baseline(rec)
	}
	resp.Usage.LogCost(a.modelID, "analysis")

	text := resp.FirstText()
	if text == "" {
		log.Error("empty analysis response, using baseline scoring")
		return Baseline(rec)
	}

	analysis := parseAnalysis(text)
	analysis.FacilityName = rec.Name
	analysis.URL = rec.URL
	analysis.AnalyzedAt = time.Now().UTC()
	analysis.LeadScore = model.ClampScore(analysis.LeadScore)
	if !analysis.Urgency.Valid() {
		analysis.Urgency = model.UrgencyMedium
	}

	log.Info("facility analyzed",
		zap.Int("lead_score", analysis.LeadScore),
		zap.String("urgency", string(analysis.Urgency)),
	)
	return analysis
}
