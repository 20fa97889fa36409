package model

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// CallStatus represents the current state of an outbound call.
type CallStatus string

const (
	CallStatusPending    CallStatus = "pending"
	CallStatusInitiated  CallStatus = "initiated"
	CallStatusRinging    CallStatus = "ringing"
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusFailed     CallStatus = "failed"
	CallStatusNoAnswer   CallStatus = "no_answer"
	CallStatusVoicemail  CallStatus = "voicemail"
	CallStatusDeclined   CallStatus = "declined"
)

// callTransitions is the legal state graph. Pending is the only initial
// state; a simulated call may jump from initiated straight to a terminal
// state, so initiated fans out to every terminal as well as the two
// intermediate states.
var callTransitions = map[CallStatus][]CallStatus{
	CallStatusPending: {CallStatusInitiated},
	CallStatusInitiated: {
		CallStatusRinging, CallStatusInProgress, CallStatusCompleted,
		CallStatusFailed, CallStatusNoAnswer, CallStatusVoicemail, CallStatusDeclined,
	},
	CallStatusRinging: {
		CallStatusInProgress, CallStatusFailed, CallStatusNoAnswer,
		CallStatusVoicemail, CallStatusDeclined,
	},
	CallStatusInProgress: {CallStatusCompleted, CallStatusFailed},
}

// CanTransition reports whether moving from s to next is legal.
func (s CallStatus) CanTransition(next CallStatus) bool {
	for _, allowed := range callTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s is a final state.
func (s CallStatus) Terminal() bool {
	switch s {
	case CallStatusCompleted, CallStatusFailed, CallStatusNoAnswer,
		CallStatusVoicemail, CallStatusDeclined:
		return true
	}
	return false
}

// CallRecord tracks a single outbound call from creation through its
// terminal state. Records are owned and mutated only by the call manager
// and are appended to history in insertion order, never deleted.
type CallRecord struct {
	ID           string     `json:"id"`
	FacilityName string     `json:"facility_name"`
	PhoneNumber  string     `json:"phone_number"`
	Status       CallStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
	Duration     *int       `json:"duration"`
	Transcript   string     `json:"call_transcript,omitempty"`
	RecordingURL string     `json:"call_recording_url,omitempty"`
	Outcome      string     `json:"outcome,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Script       string     `json:"ai_agent_script,omitempty"`
}

// NewCallRecord creates a pending record with a fresh call id.
func NewCallRecord(facilityName, phoneNumber string) *CallRecord {
	u := uuid.New()
	return &CallRecord{
		ID:           "call_" + hex.EncodeToString(u[:])[:12],
		FacilityName: facilityName,
		PhoneNumber:  phoneNumber,
		Status:       CallStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
}

// Transition moves the record to next, rejecting moves the state graph
// does not allow.
func (r *CallRecord) Transition(next CallStatus) error {
	if !r.Status.CanTransition(next) {
		return eris.Errorf("model: illegal call transition %s -> %s", r.Status, next)
	}
	r.Status = next
	return nil
}

// ComplianceCheck names the individual gate checks.
type ComplianceCheck string

const (
	CheckDNC    ComplianceCheck = "dnc_check"
	CheckFormat ComplianceCheck = "format_check"
	CheckHours  ComplianceCheck = "hours_check"
)

// ComplianceResult reports the outcome of every gate check. CanCall is
// the AND of all checks; Reasons lists a cause for each failing check in
// check order.
type ComplianceResult struct {
	CanCall bool                     `json:"can_call"`
	Reasons []string                 `json:"reasons"`
	Checks  map[ComplianceCheck]bool `json:"checks"`
}

// CallStats is an on-demand rollup over the call history.
type CallStats struct {
	TotalCalls      int                `json:"total_calls"`
	CompletedCalls  int                `json:"completed_calls"`
	FailedCalls     int                `json:"failed_calls"`
	SuccessRate     float64            `json:"success_rate"`
	AverageDuration float64            `json:"average_duration"`
	ByStatus        map[CallStatus]int `json:"by_status"`
}
