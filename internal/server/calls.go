package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/caller"
	"github.com/scrapex/outreach-engine/internal/export"
	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/salesforce"
)

// handleCall runs the compliance-gated call workflow synchronously and
// returns the outcome. Non-compliant numbers get the same 200 envelope
// with success=false and the compliance issues listed.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if !s.decode(w, r, &req) {
		return
	}

	script := s.analyzer.GenerateScript(r.Context(), req.Analysis)
	resp := s.manager.Trigger(r.Context(), req.FacilityName, req.PhoneNumber, req.Analysis, script)

	if resp.Success {
		s.syncLead(r.Context(), req, resp)
	}

	respondJSON(w, http.StatusOK, resp)
}

// syncLead pushes an interested lead to Salesforce in the background when
// a client is configured. Sync failures are logged, never surfaced to the
// caller, since the call itself already succeeded.
func (s *Server) syncLead(reqCtx context.Context, req CallRequest, resp *caller.CallOutcomeResponse) {
	if s.sf == nil || req.Analysis == nil {
		return
	}
	if resp.Status != model.CallStatusCompleted || resp.Outcome != "interested" {
		return
	}

	lead := export.LeadFromAnalysis(*req.Analysis)
	lead.Phone = req.PhoneNumber
	lead.Status = "Working - Contacted"

	ctx := context.WithoutCancel(reqCtx)
	go func() {
		if _, err := salesforce.UpsertLead(ctx, s.sf, lead); err != nil {
			zap.L().Warn("server: failed to sync lead to salesforce",
				zap.String("facility", req.FacilityName),
				zap.Error(err),
			)
			return
		}
		zap.L().Info("server: lead synced to salesforce",
			zap.String("facility", req.FacilityName),
		)
	}()
}

// handleListCalls returns the call history, optionally filtered by exact
// facility name. Statistics always cover the full history.
func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	facility := r.URL.Query().Get("facility")

	calls := s.manager.History(facility)
	if calls == nil {
		calls = []model.CallRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total_calls": len(calls),
		"statistics":  s.manager.Statistics(),
		"calls":       calls,
	})
}

// handleCallStats returns aggregate call statistics.
func (s *Server) handleCallStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.manager.Statistics())
}
