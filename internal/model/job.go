package model

import (
	"encoding/json"
	"time"
)

// JobType identifies the kind of work a job tracks.
type JobType string

const (
	JobTypeScrape     JobType = "scrape"
	JobTypeBulkScrape JobType = "bulk_scrape"
	JobTypeAnalyze    JobType = "analyze"
	JobTypeCall       JobType = "call"
)

// JobStatus represents the current state of a background job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is the bookkeeping record for one API-triggered unit of work.
// Result holds the completed payload as raw JSON.
type Job struct {
	ID         string          `json:"id"`
	Type       JobType         `json:"type"`
	Status     JobStatus       `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}
