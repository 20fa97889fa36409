package server

import (
	"net/http"
	"time"
)

// handleRoot describes the API surface.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name":    apiName,
		"version": apiVersion,
		"status":  "running",
		"endpoints": map[string]string{
			"scrape":      "/api/v1/scrape",
			"bulk_scrape": "/api/v1/bulk-scrape",
			"analyze":     "/api/v1/analyze",
			"call":        "/api/v1/call",
			"jobs":        "/api/v1/jobs",
			"calls":       "/api/v1/calls",
			"health":      "/health",
		},
	})
}

// handleHealth reports service readiness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": map[string]string{
			"scraper":      "ready",
			"analyzer":     "ready",
			"call_manager": "ready",
		},
	})
}
