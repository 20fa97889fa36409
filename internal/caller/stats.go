package caller

import (
	"github.com/scrapex/outreach-engine/internal/model"
)

// Stats computes aggregate counters over records. The average duration
// covers every record whose duration is set, including zero-length calls.
func Stats(records []model.CallRecord) model.CallStats {
	stats := model.CallStats{
		ByStatus: map[model.CallStatus]int{},
	}
	if len(records) == 0 {
		return stats
	}

	stats.TotalCalls = len(records)
	durationSum := 0
	durationCount := 0
	for _, rec := range records {
		stats.ByStatus[rec.Status]++
		switch rec.Status {
		case model.CallStatusCompleted:
			stats.CompletedCalls++
		case model.CallStatusFailed:
			stats.FailedCalls++
		}
		if rec.Duration != nil {
			durationSum += *rec.Duration
			durationCount++
		}
	}
	stats.SuccessRate = float64(stats.CompletedCalls) / float64(stats.TotalCalls) * 100
	if durationCount > 0 {
		stats.AverageDuration = float64(durationSum) / float64(durationCount)
	}
	return stats
}
