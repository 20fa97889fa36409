package scraper

import "github.com/scrapex/outreach-engine/internal/model"

// qualityMaxScore is the number of checks on the website checklist.
const qualityMaxScore = 10

// AssessQuality scores a checklist into a bounded quality assessment.
// Score counts the passing checks; Percentage is score over the maximum.
// Pure and deterministic, absent signals count as false.
func AssessQuality(checks model.QualityChecks) model.QualityAssessment {
	score := checks.Count()
	return model.QualityAssessment{
		Score:      score,
		MaxScore:   qualityMaxScore,
		Percentage: float64(score) / float64(qualityMaxScore) * 100,
		Checks:     checks,
	}
}
