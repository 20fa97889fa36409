package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/model"
)

// ScrapeRequest asks for one facility website to be scraped and analyzed.
type ScrapeRequest struct {
	URL          string `json:"url" validate:"required"`
	FacilityName string `json:"facility_name,omitempty"`
}

// BulkScrapeRequest asks for a ranked batch run over several websites.
type BulkScrapeRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required"`
}

// AnalyzeRequest asks for lead analysis of an already-scraped facility.
type AnalyzeRequest struct {
	FacilityData *model.FacilityRecord `json:"facility_data" validate:"required"`
}

// CallRequest triggers one compliance-gated outbound call. Analysis is
// optional; without it the call script falls back to a generic pitch.
type CallRequest struct {
	FacilityName string              `json:"facility_name" validate:"required"`
	PhoneNumber  string              `json:"phone_number" validate:"required"`
	Analysis     *model.LeadAnalysis `json:"analysis_data,omitempty"`
}

// newValidator builds a validator that reports field names from json tags.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldError is one entry in a 422 validation response.
type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// decode unmarshals and validates a JSON request body. It writes the error
// response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]fieldError, len(verrs))
			for i, fe := range verrs {
				details[i] = fieldError{Field: fe.Field(), Reason: reasonFor(fe)}
			}
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": details})
			return false
		}
		respondDetail(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// reasonFor renders one validation failure as a short readable reason.
func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return "must contain at least " + fe.Param() + " item(s)"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: failed to encode response", zap.Error(err))
	}
}

// respondDetail writes the {"detail": ...} error envelope used across the
// API, matching what the dashboard clients parse.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
