package caller

import (
	"context"

	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/twilio"
)

type mockDialer struct {
	result *DialResult
	err    error
	drive  func(rec *model.CallRecord)

	calls   int
	lastRec *model.CallRecord
}

func (m *mockDialer) Dial(_ context.Context, rec *model.CallRecord) (*DialResult, error) {
	m.calls++
	m.lastRec = rec
	if m.drive != nil {
		m.drive(rec)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockTwilioClient struct {
	resp *twilio.CallResponse
	err  error

	calls   int
	lastReq twilio.CallRequest
}

func (m *mockTwilioClient) CreateCall(_ context.Context, req twilio.CallRequest) (*twilio.CallResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// driveToInitiated mimics a collaborator that got as far as submitting.
func driveToInitiated(rec *model.CallRecord) {
	_ = rec.Transition(model.CallStatusInitiated)
}

// driveToCompleted mimics a collaborator that resolved the call in full.
func driveToCompleted(duration int) func(rec *model.CallRecord) {
	return func(rec *model.CallRecord) {
		_ = rec.Transition(model.CallStatusInitiated)
		_ = rec.Transition(model.CallStatusCompleted)
		d := duration
		rec.Duration = &d
		rec.Outcome = "interested"
	}
}
