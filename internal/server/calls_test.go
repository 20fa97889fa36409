package server

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapex/outreach-engine/internal/caller"
	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/salesforce"
)

// interestedDialer completes every call with an interested outcome.
type interestedDialer struct{}

func (interestedDialer) Dial(_ context.Context, rec *model.CallRecord) (*caller.DialResult, error) {
	if err := rec.Transition(model.CallStatusInitiated); err != nil {
		return nil, err
	}
	if err := rec.Transition(model.CallStatusCompleted); err != nil {
		return nil, err
	}
	duration := 180
	rec.Duration = &duration
	rec.Outcome = "interested"
	return &caller.DialResult{Note: "scripted test call"}, nil
}

// voicemailDialer ends every call in voicemail.
type voicemailDialer struct{}

func (voicemailDialer) Dial(_ context.Context, rec *model.CallRecord) (*caller.DialResult, error) {
	if err := rec.Transition(model.CallStatusInitiated); err != nil {
		return nil, err
	}
	if err := rec.Transition(model.CallStatusVoicemail); err != nil {
		return nil, err
	}
	rec.Outcome = "voicemail"
	return &caller.DialResult{Note: "scripted test call"}, nil
}

// captureSF records inserted leads; Query always reports no existing lead.
type captureSF struct {
	mu    sync.Mutex
	leads []map[string]any
}

func (c *captureSF) Query(context.Context, string, any) error { return nil }

func (c *captureSF) InsertOne(_ context.Context, _ string, record map[string]any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leads = append(c.leads, record)
	return "00Qnew", nil
}

func (c *captureSF) InsertCollection(context.Context, string, []map[string]any) ([]salesforce.CollectionResult, error) {
	return nil, nil
}

func (c *captureSF) UpdateOne(context.Context, string, string, map[string]any) error { return nil }

func (c *captureSF) UpdateCollection(context.Context, string, []salesforce.CollectionRecord) ([]salesforce.CollectionResult, error) {
	return nil, nil
}

func (c *captureSF) captured() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, len(c.leads))
	copy(out, c.leads)
	return out
}

func TestCall_Simulated(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/call", CallRequest{
		FacilityName: "Springfield Family Clinic",
		PhoneNumber:  "(555) 123-4567",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[caller.CallOutcomeResponse](t, rec)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.CallID)
	assert.True(t, resp.Status.Terminal(), "simulated calls end in a terminal status")
	assert.NotEmpty(t, resp.Outcome)
	assert.Equal(t, "Simulated call (Twilio not configured)", resp.Note)
}

func TestCall_NonCompliantNumber(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/call", CallRequest{
		FacilityName: "Blocked Clinic",
		PhoneNumber:  dncNumber,
	})
	require.Equal(t, http.StatusOK, rec.Code, "compliance rejection is a result, not an HTTP error")

	resp := decodeJSON[caller.CallOutcomeResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Call not compliant with regulations", resp.Error)
	assert.NotEmpty(t, resp.ComplianceIssues)
	assert.Empty(t, resp.CallID)

	// A blocked call leaves no trace in history.
	listRec := doRequest(t, s, http.MethodGet, "/api/v1/calls", nil)
	body := decodeJSON[map[string]any](t, listRec)
	assert.Equal(t, float64(0), body["total_calls"])
}

func TestCall_MissingPhoneNumber(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/call", map[string]any{
		"facility_name": "Clinic",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeJSON[map[string][]fieldError](t, rec)
	require.Len(t, body["detail"], 1)
	assert.Equal(t, "phone_number", body["detail"][0].Field)
}

func TestListCalls_FilterByFacility(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"Clinic A", "Clinic B"} {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/call", CallRequest{
			FacilityName: name,
			PhoneNumber:  "(555) 123-4567",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	type callsResponse struct {
		TotalCalls int                `json:"total_calls"`
		Statistics model.CallStats    `json:"statistics"`
		Calls      []model.CallRecord `json:"calls"`
	}

	rec := doRequest(t, s, http.MethodGet, "/api/v1/calls", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeJSON[callsResponse](t, rec)
	assert.Equal(t, 2, all.TotalCalls)
	assert.Len(t, all.Calls, 2)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/calls?facility=Clinic+A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	filtered := decodeJSON[callsResponse](t, rec)
	assert.Equal(t, 1, filtered.TotalCalls)
	require.Len(t, filtered.Calls, 1)
	assert.Equal(t, "Clinic A", filtered.Calls[0].FacilityName)
	assert.Equal(t, 2, filtered.Statistics.TotalCalls, "statistics cover the full history")
}

func TestCallStatistics(t *testing.T) {
	s := newTestServerWithDialer(t, interestedDialer{})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/call", CallRequest{
		FacilityName: "Clinic A",
		PhoneNumber:  "(555) 123-4567",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	statsRec := doRequest(t, s, http.MethodGet, "/api/v1/calls/statistics", nil)
	require.Equal(t, http.StatusOK, statsRec.Code)

	stats := decodeJSON[model.CallStats](t, statsRec)
	assert.Equal(t, 1, stats.TotalCalls)
	assert.Equal(t, 1, stats.CompletedCalls)
	assert.Equal(t, float64(100), stats.SuccessRate)
	assert.Equal(t, float64(180), stats.AverageDuration)
}

func TestCall_SyncsInterestedLeadToSalesforce(t *testing.T) {
	sf := &captureSF{}
	s := newTestServerWithDialer(t, interestedDialer{}, WithSalesforce(sf))

	rec := doRequest(t, s, http.MethodPost, "/api/v1/call", CallRequest{
		FacilityName: "Springfield Family Clinic",
		PhoneNumber:  "(555) 123-4567",
		Analysis: &model.LeadAnalysis{
			FacilityName: "Springfield Family Clinic",
			URL:          "https://springfieldclinic.com",
			LeadScore:    89,
			Urgency:      model.UrgencyHigh,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		return len(sf.captured()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	lead := sf.captured()[0]
	assert.Equal(t, "Springfield Family Clinic", lead["Company"])
	assert.Equal(t, "https://springfieldclinic.com", lead["Website"])
	assert.Equal(t, "(555) 123-4567", lead["Phone"])
	assert.Equal(t, "Working - Contacted", lead["Status"])
	assert.Equal(t, "Hot", lead["Rating"])
}

func TestCall_NoSalesforceSyncWithoutInterest(t *testing.T) {
	sf := &captureSF{}
	s := newTestServerWithDialer(t, voicemailDialer{}, WithSalesforce(sf))

	rec := doRequest(t, s, http.MethodPost, "/api/v1/call", CallRequest{
		FacilityName: "Clinic A",
		PhoneNumber:  "(555) 123-4567",
		Analysis: &model.LeadAnalysis{
			FacilityName: "Clinic A",
			URL:          "https://clinic-a.com",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Never(t, func() bool {
		return len(sf.captured()) > 0
	}, 100*time.Millisecond, 10*time.Millisecond)
}
