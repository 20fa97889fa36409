package analyzer

import (
	"context"

	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/anthropic"
)

// mockAnthropicClient implements anthropic.Client for testing.
type mockAnthropicClient struct {
	response *anthropic.MessageResponse
	err      error
	lastReq  anthropic.MessageRequest
	calls    int
}

func (m *mockAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

// testRecord returns a facility with a phone, address, services, and a 45%
// quality score, which the baseline scorer values at 89.
func testRecord() *model.FacilityRecord {
	return &model.FacilityRecord{
		URL:      "https://example-clinic.com",
		Name:     "Community Health Clinic",
		Phones:   []string{"(555) 123-4567"},
		Address:  "123 Main St, Springfield, IL",
		Services: []string{"Primary Care", "Urgent Care"},
		Insurance: model.InsuranceInfo{
			AcceptsInsurance: true,
			AcceptsMedicare:  true,
		},
		ContactMethods: model.ContactMethods{Phone: true},
		Quality:        model.QualityAssessment{Score: 4, MaxScore: 10, Percentage: 45},
	}
}
