package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/internal/store"
)

// defaultJobsLimit caps job listings when the client does not ask for one.
const defaultJobsLimit = 50

// handleScrape starts a background job that scrapes, normalizes, and
// analyzes one facility website.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if !s.decode(w, r, &req) {
		return
	}

	job, err := s.store.CreateJob(r.Context(), model.JobTypeScrape)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.runJob(r.Context(), job.ID, func(ctx context.Context) (any, error) {
		return s.pipe.Run(ctx, req.URL)
	})

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":  job.ID,
		"status":  job.Status,
		"message": "Scraping job started",
	})
}

// handleBulkScrape starts a background job that runs the bounded
// concurrent pipeline over every URL and ranks the survivors.
func (s *Server) handleBulkScrape(w http.ResponseWriter, r *http.Request) {
	var req BulkScrapeRequest
	if !s.decode(w, r, &req) {
		return
	}

	job, err := s.store.CreateJob(r.Context(), model.JobTypeBulkScrape)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.runJob(r.Context(), job.ID, func(ctx context.Context) (any, error) {
		return s.pipe.RunBatch(ctx, req.URLs), nil
	})

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":  job.ID,
		"status":  job.Status,
		"message": fmt.Sprintf("Bulk scraping job started for %d URLs", len(req.URLs)),
	})
}

// handleAnalyze starts a background job that analyzes an already-scraped
// facility record without re-fetching the site.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	job, err := s.store.CreateJob(r.Context(), model.JobTypeAnalyze)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.runJob(r.Context(), job.ID, func(ctx context.Context) (any, error) {
		return s.pipe.Analyze(ctx, req.FacilityData), nil
	})

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":  job.ID,
		"status":  job.Status,
		"message": "Analysis job started",
	})
}

// runJob executes fn on a background goroutine and records the outcome on
// the job. The context is detached from the request so the work survives
// the client disconnecting but keeps request-scoped values for logging.
func (s *Server) runJob(reqCtx context.Context, jobID string, fn func(context.Context) (any, error)) {
	ctx := context.WithoutCancel(reqCtx)
	go func() {
		log := zap.L().With(zap.String("job_id", jobID))

		if err := s.store.StartJob(ctx, jobID); err != nil {
			log.Error("server: failed to start job", zap.Error(err))
			return
		}

		result, err := fn(ctx)
		if err != nil {
			log.Error("server: job failed", zap.Error(err))
			if ferr := s.store.FailJob(ctx, jobID, err.Error()); ferr != nil {
				log.Error("server: failed to record job failure", zap.Error(ferr))
			}
			return
		}

		if err := s.store.CompleteJob(ctx, jobID, result); err != nil {
			log.Error("server: failed to record job completion", zap.Error(err))
			return
		}
		log.Info("server: job complete")
	}()
}

// handleGetJob returns one job by id.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		if eris.Is(err, store.ErrJobNotFound) {
			respondDetail(w, http.StatusNotFound, "Job not found")
			return
		}
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// handleListJobs returns the most recent jobs, newest first. The total
// counts every job ever recorded, not just the returned page.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultJobsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": []fieldError{{Field: "limit", Reason: "must be a non-negative integer"}},
			})
			return
		}
		limit = parsed
	}

	jobs, err := s.store.ListJobs(r.Context(), store.JobFilter{})
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := len(jobs)
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	if jobs == nil {
		jobs = []model.Job{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total": total,
		"jobs":  jobs,
	})
}
