package analyzer

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/model"
)

// parseAnalysis extracts the structured assessment embedded in an AI
// response. The model may wrap the JSON object in prose, so everything
// between the first '{' and the last '}' is treated as the payload. When no
// parseable object is found the raw text is preserved and the lead score
// stays 0.
func parseAnalysis(text string) *model.LeadAnalysis {
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return &model.LeadAnalysis{RawAnalysis: text}
	}

	var analysis model.LeadAnalysis
	if err := json.Unmarshal([]byte(text[jsonStart:jsonEnd+1]), &analysis); err != nil {
		zap.L().Warn("analysis response JSON malformed, keeping raw text", zap.Error(err))
		return &model.LeadAnalysis{RawAnalysis: text}
	}
	return &analysis
}
