package caller

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/scrapex/outreach-engine/internal/model"
)

const simulatedNote = "Simulated call (Twilio not configured)"

const sampleTranscriptTmpl = `
CALLER: Hello, this is an automated call from ScrapeX regarding %s.

CALLER: %s

RECIPIENT: [Response recorded]

CALLER: Thank you for your time. Have a great day!
`

type simOutcome struct {
	status   model.CallStatus
	outcome  string
	duration int
	weight   int
}

var simulatedOutcomes = []simOutcome{
	{status: model.CallStatusCompleted, outcome: "interested", duration: 180, weight: 30},
	{status: model.CallStatusCompleted, outcome: "not_interested", duration: 45, weight: 25},
	{status: model.CallStatusNoAnswer, outcome: "no_answer", duration: 0, weight: 25},
	{status: model.CallStatusVoicemail, outcome: "voicemail", duration: 30, weight: 20},
}

var simTotalWeight = func() int {
	total := 0
	for _, o := range simulatedOutcomes {
		total += o.weight
	}
	return total
}()

// Simulator is the offline telephony collaborator. It drives a CallRecord
// to a weighted pseudo-random terminal outcome without touching the
// network, synthesizing a transcript for completed calls.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSimulator builds a simulator over rng. A nil rng gets a time-seeded
// source; tests pass a fixed seed for deterministic outcomes.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rng: rng, now: time.Now}
}

// Dial simulates the call attached to rec. The record moves from pending
// through initiated to the selected terminal status.
func (s *Simulator) Dial(ctx context.Context, rec *model.CallRecord) (*DialResult, error) {
	if err := rec.Transition(model.CallStatusInitiated); err != nil {
		return nil, err
	}
	started := s.now().UTC()
	rec.StartedAt = &started

	choice := s.pick()
	if err := rec.Transition(choice.status); err != nil {
		return nil, err
	}
	duration := choice.duration
	rec.Duration = &duration
	rec.Outcome = choice.outcome
	ended := s.now().UTC()
	rec.EndedAt = &ended

	if rec.Status == model.CallStatusCompleted {
		rec.Transcript = fmt.Sprintf(sampleTranscriptTmpl, rec.FacilityName, rec.Script)
	}

	return &DialResult{Note: simulatedNote}, nil
}

func (s *Simulator) pick() simOutcome {
	s.mu.Lock()
	n := s.rng.Intn(simTotalWeight)
	s.mu.Unlock()
	for _, o := range simulatedOutcomes {
		n -= o.weight
		if n < 0 {
			return o
		}
	}
	return simulatedOutcomes[len(simulatedOutcomes)-1]
}
