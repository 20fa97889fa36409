// Package caller owns the compliance-gated outbound call workflow: the
// pre-call compliance gate, the CallRecord state machine, dispatch to the
// telephony collaborator or the offline simulator, and the append-only call
// history with on-demand statistics.
package caller

import (
	"context"

	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/model"
)

// Dialer is the telephony collaborator capability. Implementations drive
// the record's state transitions from pending through whatever state the
// submission reaches; the record must be usable for history even when Dial
// returns an error.
type Dialer interface {
	Dial(ctx context.Context, rec *model.CallRecord) (*DialResult, error)
}

// DialResult carries provider-specific extras for the trigger response.
type DialResult struct {
	ProviderSID string
	Note        string
}

// CallOutcomeResponse is the result of a trigger attempt.
type CallOutcomeResponse struct {
	Success          bool             `json:"success"`
	CallID           string           `json:"call_id,omitempty"`
	TwilioCallSID    string           `json:"twilio_call_sid,omitempty"`
	Status           model.CallStatus `json:"status,omitempty"`
	Outcome          string           `json:"outcome,omitempty"`
	FacilityName     string           `json:"facility_name,omitempty"`
	PhoneNumber      string           `json:"phone_number,omitempty"`
	Duration         *int             `json:"duration,omitempty"`
	Note             string           `json:"note,omitempty"`
	Error            string           `json:"error,omitempty"`
	ComplianceIssues []string         `json:"compliance_issues,omitempty"`
}

// Manager drives the call lifecycle. The dialer, history store, and
// compliance gate are injected at construction; triggers are safe to run
// concurrently.
type Manager struct {
	dialer  Dialer
	history History
	gate    *Gate
}

// NewManager wires a call manager from its collaborators.
func NewManager(dialer Dialer, history History, gate *Gate) *Manager {
	return &Manager{dialer: dialer, history: history, gate: gate}
}

// Trigger runs the full call workflow for one facility. Non-compliant
// numbers are rejected before any record exists and leave no trace in
// history. Dialer failures still append the record with whatever status it
// reached and return a failure response carrying the record id.
func (m *Manager) Trigger(ctx context.Context, facilityName, phoneNumber string, analysis *model.LeadAnalysis, script string) *CallOutcomeResponse {
	log := zap.L().With(zap.String("facility", facilityName))

	compliance := m.gate.Check(phoneNumber)
	if !compliance.CanCall {
		log.Warn("call blocked by compliance gate", zap.Strings("reasons", compliance.Reasons))
		return &CallOutcomeResponse{
			Success:          false,
			Error:            "Call not compliant with regulations",
			ComplianceIssues: compliance.Reasons,
		}
	}

	rec := model.NewCallRecord(facilityName, phoneNumber)
	rec.Script = script
	if analysis != nil {
		log = log.With(zap.Int("lead_score", analysis.LeadScore))
	}

	result, err := m.dialer.Dial(ctx, rec)
	m.history.Append(rec)
	if err != nil {
		log.Error("call dispatch failed",
			zap.String("call_id", rec.ID),
			zap.String("status", string(rec.Status)),
			zap.Error(err),
		)
		return &CallOutcomeResponse{
			Success: false,
			CallID:  rec.ID,
			Error:   err.Error(),
		}
	}

	log.Info("call initiated",
		zap.String("call_id", rec.ID),
		zap.String("status", string(rec.Status)),
	)

	resp := &CallOutcomeResponse{
		Success:       true,
		CallID:        rec.ID,
		TwilioCallSID: result.ProviderSID,
		Status:        rec.Status,
		Outcome:       rec.Outcome,
		FacilityName:  rec.FacilityName,
		PhoneNumber:   rec.PhoneNumber,
		Note:          result.Note,
	}
	if rec.Duration != nil {
		d := *rec.Duration
		resp.Duration = &d
	}
	return resp
}

// Compliance exposes the gate for pre-flight checks without triggering.
func (m *Manager) Compliance(phoneNumber string) model.ComplianceResult {
	return m.gate.Check(phoneNumber)
}

// History returns appended call records in insertion order, optionally
// filtered by exact facility name ("" returns everything).
func (m *Manager) History(facilityName string) []model.CallRecord {
	return m.history.List(facilityName)
}

// Statistics recomputes aggregate call counters over the full history.
func (m *Manager) Statistics() model.CallStats {
	return Stats(m.history.List(""))
}
