package analyzer

import (
	"time"

	"github.com/scrapex/outreach-engine/internal/model"
)

// baselinePitch is the canned pitch used when no AI assessment exists.
const baselinePitch = "We help healthcare facilities improve patient engagement."

// Baseline deterministically scores a facility without the AI collaborator.
// The score starts at 50, earns +10 for a phone number, +10 for an address,
// +15 for listed services, plus a tenth of the website quality percentage,
// capped at 100. Urgency is always medium and the opportunity and gap lists
// are fixed canned entries marking this as a degraded analysis.
func Baseline(rec *model.FacilityRecord) *model.LeadAnalysis {
	score := 50
	if len(rec.Phones) > 0 {
		score += 10
	}
	if rec.Address != "" {
		score += 10
	}
	if len(rec.Services) > 0 {
		score += 15
	}
	score += int(rec.Quality.Percentage / 10)
	score = model.ClampScore(score)

	return &model.LeadAnalysis{
		FacilityName: rec.Name,
		URL:          rec.URL,
		AnalyzedAt:   time.Now().UTC(),
		LeadScore:    score,
		Urgency:      model.UrgencyMedium,
		Opportunities: []model.Opportunity{
			{Opportunity: "Improved online presence"},
			{Opportunity: "Better contact methods"},
		},
		Gaps: []model.Gap{
			{Gap: "Limited online booking"},
		},
		Pitch: baselinePitch,
		Note:  "Basic analysis (AI not available)",
	}
}
