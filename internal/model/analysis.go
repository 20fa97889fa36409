package model

import "time"

// Urgency classifies how quickly a lead should be worked.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Valid reports whether u is one of the three known tiers.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// Opportunity is a single revenue opportunity identified for a facility.
type Opportunity struct {
	Opportunity string `json:"opportunity"`
	Description string `json:"description,omitempty"`
	Impact      string `json:"potential_impact,omitempty"`
	Difficulty  string `json:"implementation_difficulty,omitempty"`
}

// Gap is a single operational gap identified for a facility.
type Gap struct {
	Gap            string `json:"gap"`
	Description    string `json:"description,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Positioning summarizes competitive strengths and weaknesses.
type Positioning struct {
	Strengths     []string `json:"strengths,omitempty"`
	Weaknesses    []string `json:"weaknesses,omitempty"`
	Opportunities []string `json:"opportunities,omitempty"`
}

// LeadAnalysis is the scored outcome of analyzing one facility.
// LeadScore is always clamped to [0,100]. Immutable after creation;
// Rank is zero until assigned by ranking.
type LeadAnalysis struct {
	FacilityName  string        `json:"facility_name"`
	URL           string        `json:"url"`
	AnalyzedAt    time.Time     `json:"analyzed_at"`
	LeadScore     int           `json:"lead_score"`
	Urgency       Urgency       `json:"urgency"`
	Opportunities []Opportunity `json:"revenue_opportunities"`
	Gaps          []Gap         `json:"operational_gaps"`
	Positioning   *Positioning  `json:"competitive_positioning,omitempty"`
	ScoreReason   string        `json:"lead_score_reasoning,omitempty"`
	Pitch         string        `json:"recommended_pitch"`
	NextSteps     []string      `json:"next_steps,omitempty"`
	RawAnalysis   string        `json:"raw_analysis,omitempty"`
	Note          string        `json:"note,omitempty"`
	Rank          int           `json:"rank,omitempty"`
}

// ClampScore bounds a lead score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
