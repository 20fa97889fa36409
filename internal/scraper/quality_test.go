package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrapex/outreach-engine/internal/model"
)

func TestAssessQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     model.QualityChecks
		wantScore  int
		wantPct    float64
	}{
		{"no signals", model.QualityChecks{}, 0, 0},
		{
			"three signals",
			model.QualityChecks{HasTitle: true, HasSSL: true, HasNavigation: true},
			3, 30,
		},
		{
			"all signals",
			model.QualityChecks{
				HasTitle: true, HasMetaDescription: true, HasContactInfo: true,
				HasAddress: true, HasImages: true, HasServicesInfo: true,
				IsMobileResponsive: true, HasSSL: true, HasSocialLinks: true,
				HasNavigation: true,
			},
			10, 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			qa := AssessQuality(tt.checks)
			assert.Equal(t, tt.wantScore, qa.Score)
			assert.Equal(t, qualityMaxScore, qa.MaxScore)
			assert.InDelta(t, tt.wantPct, qa.Percentage, 0.001)
			assert.Equal(t, tt.checks, qa.Checks)
		})
	}
}

// Percentage must always be derivable from the checks alone.
func TestAssessQualityPercentageInvariant(t *testing.T) {
	t.Parallel()

	// Walk every single-check combination plus a few mixed ones.
	single := []model.QualityChecks{
		{HasTitle: true}, {HasMetaDescription: true}, {HasContactInfo: true},
		{HasAddress: true}, {HasImages: true}, {HasServicesInfo: true},
		{IsMobileResponsive: true}, {HasSSL: true}, {HasSocialLinks: true},
		{HasNavigation: true},
	}
	for _, checks := range single {
		qa := AssessQuality(checks)
		assert.Equal(t, 1, qa.Score)
		assert.InDelta(t, 10.0, qa.Percentage, 0.001)
	}

	mixed := model.QualityChecks{HasTitle: true, HasAddress: true, HasImages: true, HasSSL: true}
	qa := AssessQuality(mixed)
	assert.InDelta(t, float64(qa.Score)*10, qa.Percentage, 0.001)
	assert.GreaterOrEqual(t, qa.Percentage, 0.0)
	assert.LessOrEqual(t, qa.Percentage, 100.0)
}
