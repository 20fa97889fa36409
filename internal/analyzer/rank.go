package analyzer

import (
	"sort"

	"github.com/scrapex/outreach-engine/internal/model"
)

// Rank orders analyses by lead score, highest first, and assigns 1-based
// ranks with no gaps. The sort is stable, so equal scores keep their input
// order. The input slice is left untouched.
func Rank(analyses []model.LeadAnalysis) []model.LeadAnalysis {
	ranked := make([]model.LeadAnalysis, len(analyses))
	copy(ranked, analyses)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LeadScore > ranked[j].LeadScore
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
