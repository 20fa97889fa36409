// Package store persists jobs, facility records, lead analyses, and the
// call archive behind a driver-selected interface.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/scrapex/outreach-engine/internal/model"
)

// ErrJobNotFound reports a lookup for a job id that does not exist.
var ErrJobNotFound = eris.New("job not found")

// JobFilter specifies criteria for listing jobs.
type JobFilter struct {
	Status model.JobStatus `json:"status,omitempty"`
	Type   model.JobType   `json:"type,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the outreach engine. The
// in-memory call history owned by the call manager is the source of truth
// for live triggers; SaveCall archives records durably after the fact.
type Store interface {
	// Jobs
	CreateJob(ctx context.Context, jobType model.JobType) (*model.Job, error)
	StartJob(ctx context.Context, jobID string) error
	CompleteJob(ctx context.Context, jobID string, result any) error
	FailJob(ctx context.Context, jobID string, jobErr string) error
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error)

	// Facilities and analyses
	SaveFacility(ctx context.Context, rec model.FacilityRecord) error
	SaveAnalysis(ctx context.Context, analysis model.LeadAnalysis) error
	SaveAnalyses(ctx context.Context, analyses []model.LeadAnalysis) error
	GetAnalysis(ctx context.Context, url string) (*model.LeadAnalysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]model.LeadAnalysis, error)

	// Call archive
	SaveCall(ctx context.Context, rec model.CallRecord) error
	ListCalls(ctx context.Context, facilityName string) ([]model.CallRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
