package analyzer

import (
	"context"

	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/anthropic"
)

// fallbackScript is returned whenever script generation cannot complete.
const fallbackScript = "Unable to generate script at this time."

// GenerateScript produces a 30-second cold call script for an analyzed
// lead. A nil analysis is allowed and produces a generic script. Failures
// degrade to a fixed fallback line rather than an error so the call flow
// is never blocked.
func (a *Analyzer) GenerateScript(ctx context.Context, analysis *model.LeadAnalysis) string {
	if analysis == nil {
		analysis = &model.LeadAnalysis{}
	}
	log := zap.L().With(zap.String("facility", analysis.FacilityName))

	if a.client == nil {
		log.Warn("AI client not configured, using fallback call script")
		return fallbackScript
	}

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.modelID,
		MaxTokens: a.scriptMaxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: buildScriptPrompt(analysis)}},
	})
	if err != nil {
		log.Error("call script request failed", zap.Error(err))
		return fallbackScript
	}
	resp.Usage.LogCost(a.modelID, "call_script")

	script := resp.FirstText()
	if script == "" {
		log.Error("empty call script response, using fallback")
		return fallbackScript
	}

	log.Info("call script generated")
	return script
}
