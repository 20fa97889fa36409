package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/salesforce"
)

// leadSource tags Salesforce leads created by this engine.
const leadSource = "Outreach Engine"

// LeadFromAnalysis maps a scored analysis onto a Salesforce Lead. The
// website doubles as the upsert key, so repeat exports of the same
// facility refresh one record.
func LeadFromAnalysis(a model.LeadAnalysis) salesforce.Lead {
	return salesforce.Lead{
		Company:     a.FacilityName,
		Website:     a.URL,
		LeadSource:  leadSource,
		Rating:      ratingFor(a.Urgency),
		Status:      "Open - Not Contacted",
		Description: describe(a),
	}
}

// SyncLeads upserts analyses into Salesforce as Lead records. Analyses
// missing a facility name or URL cannot form a valid Lead and are skipped
// with a warning rather than failing the whole export.
func SyncLeads(ctx context.Context, c salesforce.Client, analyses []model.LeadAnalysis) ([]salesforce.CollectionResult, error) {
	leads := make([]salesforce.Lead, 0, len(analyses))
	for _, a := range analyses {
		if a.FacilityName == "" || a.URL == "" {
			zap.L().Warn("export: skipping lead without name or url",
				zap.String("facility", a.FacilityName),
				zap.String("url", a.URL),
			)
			continue
		}
		leads = append(leads, LeadFromAnalysis(a))
	}
	if len(leads) == 0 {
		return nil, nil
	}

	results, err := salesforce.UpsertLeads(ctx, c, leads)
	if err != nil {
		return results, eris.Wrap(err, "export: sync leads")
	}
	return results, nil
}

// ratingFor converts an urgency tier to the standard Lead rating picklist.
func ratingFor(u model.Urgency) string {
	switch u {
	case model.UrgencyHigh:
		return "Hot"
	case model.UrgencyMedium:
		return "Warm"
	case model.UrgencyLow:
		return "Cold"
	}
	return ""
}

// describe summarizes the analysis for the Lead description field.
func describe(a model.LeadAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead score %d/100", a.LeadScore)
	if a.Rank > 0 {
		fmt.Fprintf(&b, " (rank %d)", a.Rank)
	}
	if a.ScoreReason != "" {
		b.WriteString(". ")
		b.WriteString(a.ScoreReason)
	}
	if a.Pitch != "" {
		b.WriteString("\n\nPitch: ")
		b.WriteString(a.Pitch)
	}
	return b.String()
}
