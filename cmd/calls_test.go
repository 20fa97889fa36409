package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scrapex/outreach-engine/internal/model"
)

func TestFormatCallsList(t *testing.T) {
	duration := 180
	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	records := []model.CallRecord{
		{
			ID:           "call_abc123def456",
			FacilityName: "Springfield Medical Center",
			PhoneNumber:  "(555) 123-4567",
			Status:       model.CallStatusCompleted,
			Outcome:      "interested",
			Duration:     &duration,
			CreatedAt:    created,
		},
		{
			ID:           "call_fffea1b2c3d4",
			FacilityName: "A Facility With An Extremely Long Name That Overflows",
			PhoneNumber:  "(555) 987-6543",
			Status:       model.CallStatusNoAnswer,
			Outcome:      "no_answer",
			CreatedAt:    created,
		},
	}

	var sb strings.Builder
	formatCallsList(&sb, records)
	out := sb.String()

	assert.Contains(t, out, "call_abc123def456")
	assert.Contains(t, out, "Springfield Medical Center")
	assert.Contains(t, out, "interested")
	assert.Contains(t, out, "180s")
	assert.Contains(t, out, "2026-03-14 10:30")
	// Long names are truncated for the table.
	assert.Contains(t, out, "A Facility With An Extremel...")
	assert.NotContains(t, out, "Overflows")
}

func TestFormatCallStats(t *testing.T) {
	stats := model.CallStats{
		TotalCalls:      4,
		CompletedCalls:  2,
		FailedCalls:     1,
		SuccessRate:     50,
		AverageDuration: 112.5,
		ByStatus: map[model.CallStatus]int{
			model.CallStatusCompleted: 2,
			model.CallStatusNoAnswer:  1,
			model.CallStatusFailed:    1,
		},
	}

	var sb strings.Builder
	formatCallStats(&sb, stats)
	out := sb.String()

	assert.Contains(t, out, "Total calls:")
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "112.5s")
	assert.Contains(t, out, "completed:")
	assert.Contains(t, out, "no_answer:")
}
