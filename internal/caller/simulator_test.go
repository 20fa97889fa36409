package caller

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapex/outreach-engine/internal/model"
)

func simRecord() *model.CallRecord {
	rec := model.NewCallRecord("Community Health Clinic", "(555) 123-4567")
	rec.Script = "We help healthcare facilities improve patient engagement."
	return rec
}

func TestSimulator_SeededDeterminism(t *testing.T) {
	run := func(seed int64) []model.CallStatus {
		sim := NewSimulator(rand.New(rand.NewSource(seed)))
		statuses := make([]model.CallStatus, 0, 10)
		for i := 0; i < 10; i++ {
			rec := simRecord()
			_, err := sim.Dial(context.Background(), rec)
			require.NoError(t, err)
			statuses = append(statuses, rec.Status)
		}
		return statuses
	}

	assert.Equal(t, run(42), run(42))
}

func TestSimulator_OutcomeFromFixedSet(t *testing.T) {
	expected := map[string]struct {
		status   model.CallStatus
		duration int
	}{
		"interested":     {status: model.CallStatusCompleted, duration: 180},
		"not_interested": {status: model.CallStatusCompleted, duration: 45},
		"no_answer":      {status: model.CallStatusNoAnswer, duration: 0},
		"voicemail":      {status: model.CallStatusVoicemail, duration: 30},
	}

	sim := NewSimulator(rand.New(rand.NewSource(7)))
	for i := 0; i < 40; i++ {
		rec := simRecord()
		_, err := sim.Dial(context.Background(), rec)
		require.NoError(t, err)

		want, ok := expected[rec.Outcome]
		require.Truef(t, ok, "unexpected outcome %q", rec.Outcome)
		assert.Equal(t, want.status, rec.Status)
		require.NotNil(t, rec.Duration)
		assert.Equal(t, want.duration, *rec.Duration)
	}
}

func TestSimulator_TranscriptOnlyWhenCompleted(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(7)))
	sawCompleted := false
	sawOther := false

	for i := 0; i < 40; i++ {
		rec := simRecord()
		_, err := sim.Dial(context.Background(), rec)
		require.NoError(t, err)

		if rec.Status == model.CallStatusCompleted {
			sawCompleted = true
			assert.Contains(t, rec.Transcript, "Community Health Clinic")
			assert.Contains(t, rec.Transcript, rec.Script)
			assert.Contains(t, rec.Transcript, "RECIPIENT: [Response recorded]")
		} else {
			sawOther = true
			assert.Empty(t, rec.Transcript)
		}
	}

	assert.True(t, sawCompleted)
	assert.True(t, sawOther)
}

func TestSimulator_RecordTimestamps(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)))
	rec := simRecord()

	result, err := sim.Dial(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, simulatedNote, result.Note)
	assert.True(t, rec.Status.Terminal())
	require.NotNil(t, rec.StartedAt)
	require.NotNil(t, rec.EndedAt)
	assert.False(t, rec.EndedAt.Before(*rec.StartedAt))
}

func TestSimulator_RejectsReusedRecord(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)))
	rec := simRecord()

	_, err := sim.Dial(context.Background(), rec)
	require.NoError(t, err)

	_, err = sim.Dial(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal call transition")
}
