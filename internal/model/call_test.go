package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status CallStatus
		want   string
	}{
		{CallStatusPending, "pending"},
		{CallStatusInitiated, "initiated"},
		{CallStatusRinging, "ringing"},
		{CallStatusInProgress, "in_progress"},
		{CallStatusCompleted, "completed"},
		{CallStatusFailed, "failed"},
		{CallStatusNoAnswer, "no_answer"},
		{CallStatusVoicemail, "voicemail"},
		{CallStatusDeclined, "declined"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestCallStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from CallStatus
		to   CallStatus
		want bool
	}{
		{"pending to initiated", CallStatusPending, CallStatusInitiated, true},
		{"pending to completed skips initiated", CallStatusPending, CallStatusCompleted, false},
		{"pending to failed skips initiated", CallStatusPending, CallStatusFailed, false},
		{"initiated to ringing", CallStatusInitiated, CallStatusRinging, true},
		{"initiated to in_progress", CallStatusInitiated, CallStatusInProgress, true},
		{"initiated jumps to completed", CallStatusInitiated, CallStatusCompleted, true},
		{"initiated jumps to voicemail", CallStatusInitiated, CallStatusVoicemail, true},
		{"initiated jumps to no_answer", CallStatusInitiated, CallStatusNoAnswer, true},
		{"initiated jumps to declined", CallStatusInitiated, CallStatusDeclined, true},
		{"initiated jumps to failed", CallStatusInitiated, CallStatusFailed, true},
		{"initiated back to pending", CallStatusInitiated, CallStatusPending, false},
		{"ringing to in_progress", CallStatusRinging, CallStatusInProgress, true},
		{"ringing to no_answer", CallStatusRinging, CallStatusNoAnswer, true},
		{"ringing to completed skips in_progress", CallStatusRinging, CallStatusCompleted, false},
		{"in_progress to completed", CallStatusInProgress, CallStatusCompleted, true},
		{"in_progress to failed", CallStatusInProgress, CallStatusFailed, true},
		{"in_progress to voicemail", CallStatusInProgress, CallStatusVoicemail, false},
		{"completed is terminal", CallStatusCompleted, CallStatusInitiated, false},
		{"failed is terminal", CallStatusFailed, CallStatusInitiated, false},
		{"voicemail is terminal", CallStatusVoicemail, CallStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestCallStatusTerminal(t *testing.T) {
	t.Parallel()

	terminal := []CallStatus{
		CallStatusCompleted, CallStatusFailed, CallStatusNoAnswer,
		CallStatusVoicemail, CallStatusDeclined,
	}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "expected %s to be terminal", s)
	}

	active := []CallStatus{
		CallStatusPending, CallStatusInitiated, CallStatusRinging, CallStatusInProgress,
	}
	for _, s := range active {
		assert.False(t, s.Terminal(), "expected %s to be non-terminal", s)
	}
}

func TestCallRecordTransition(t *testing.T) {
	t.Parallel()

	rec := &CallRecord{ID: "call_abc123def456", Status: CallStatusPending}

	require.NoError(t, rec.Transition(CallStatusInitiated))
	assert.Equal(t, CallStatusInitiated, rec.Status)

	err := rec.Transition(CallStatusPending)
	require.Error(t, err)
	assert.Equal(t, CallStatusInitiated, rec.Status, "status must not change on a rejected transition")

	require.NoError(t, rec.Transition(CallStatusCompleted))
	assert.True(t, rec.Status.Terminal())
}

func TestQualityChecksCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, QualityChecks{}.Count())

	all := QualityChecks{
		HasTitle: true, HasMetaDescription: true, HasContactInfo: true,
		HasAddress: true, HasImages: true, HasServicesInfo: true,
		IsMobileResponsive: true, HasSSL: true, HasSocialLinks: true,
		HasNavigation: true,
	}
	assert.Equal(t, 10, all.Count())

	partial := QualityChecks{HasTitle: true, HasSSL: true, HasNavigation: true}
	assert.Equal(t, 3, partial.Count())
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"negative clamps to zero", -5, 0},
		{"zero passes", 0, 0},
		{"mid passes", 72, 72},
		{"hundred passes", 100, 100},
		{"overflow clamps to hundred", 140, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClampScore(tt.score))
		})
	}
}

func TestUrgencyValid(t *testing.T) {
	t.Parallel()

	assert.True(t, UrgencyHigh.Valid())
	assert.True(t, UrgencyMedium.Valid())
	assert.True(t, UrgencyLow.Valid())
	assert.False(t, Urgency("critical").Valid())
	assert.False(t, Urgency("").Valid())
}
