package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scrapex/outreach-engine/internal/model"
)

// analysisPromptTmpl asks for a structured consultant assessment. The
// response must embed a JSON object matching the LeadAnalysis shape.
const analysisPromptTmpl = `
You are an expert healthcare business consultant analyzing a healthcare facility for revenue opportunities and operational gaps.

FACILITY INFORMATION:
- Name: %s
- Website: %s
- Phone Numbers: %s
- Address: %s
- Services: %s
- Specialties: %s
- Website Quality Score: %.0f%%
- Insurance Accepted: %s
- Contact Methods: %s

ANALYSIS TASK:
Please provide a comprehensive analysis in JSON format with the following structure:
{
    "revenue_opportunities": [
        {
            "opportunity": "specific opportunity",
            "description": "why this is an opportunity",
            "potential_impact": "high/medium/low",
            "implementation_difficulty": "easy/medium/hard"
        }
    ],
    "operational_gaps": [
        {
            "gap": "identified gap",
            "description": "why this is a gap",
            "recommendation": "how to address it"
        }
    ],
    "competitive_positioning": {
        "strengths": ["strength1", "strength2"],
        "weaknesses": ["weakness1", "weakness2"],
        "opportunities": ["opportunity1", "opportunity2"]
    },
    "lead_score": 0-100,
    "lead_score_reasoning": "explanation of the score",
    "recommended_pitch": "personalized sales pitch for this facility",
    "urgency": "high/medium/low",
    "next_steps": ["step1", "step2", "step3"]
}

Focus on:
1. Revenue leaks (services not offered, gaps in specialties)
2. Digital presence gaps (poor website, missing online booking)
3. Operational inefficiencies (limited contact methods, poor accessibility)
4. Market opportunities (underserved specialties, growth potential)
5. Compliance and accreditation gaps

Be specific and actionable. Base recommendations on the data provided.
`

// scriptPromptTmpl turns a finished analysis into a cold call script.
const scriptPromptTmpl = `
Based on this healthcare facility analysis, create a concise, professional 30-second cold call script.

Facility: %s
Analysis: %s
Recommended Pitch: %s

Create a script that:
1. Opens with a compelling hook about their specific opportunity
2. References a specific gap or opportunity identified
3. Proposes a brief conversation
4. Ends with a clear call-to-action

Format as a natural conversation script.
`

func buildAnalysisPrompt(rec *model.FacilityRecord) string {
	name := rec.Name
	if name == "" {
		name = "Unknown"
	}
	website := rec.URL
	if website == "" {
		website = "N/A"
	}

	return fmt.Sprintf(analysisPromptTmpl,
		name,
		website,
		joinOrDefault(rec.Phones, "Not found"),
		valueOrDefault(rec.Address, "Not found"),
		joinOrDefault(rec.Services, "Not specified"),
		joinOrDefault(rec.Specialties, "Not specified"),
		rec.Quality.Percentage,
		jsonBlob(rec.Insurance),
		jsonBlob(rec.ContactMethods),
	)
}

func buildScriptPrompt(analysis *model.LeadAnalysis) string {
	payload, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}

	return fmt.Sprintf(scriptPromptTmpl,
		analysis.FacilityName,
		string(payload),
		analysis.Pitch,
	)
}

func joinOrDefault(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func jsonBlob(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
