package scraper

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/scrapex/outreach-engine/internal/model"
)

// ErrMissingURL is returned when an extraction carries no source URL.
var ErrMissingURL = eris.New("scraper: facility url is required")

// Normalize assembles a facility record from a raw extraction, computing
// the quality assessment from the extraction's checklist. It fails only
// when the source URL is absent; no network calls happen here.
func Normalize(raw *model.RawExtraction) (*model.FacilityRecord, error) {
	if raw == nil || raw.URL == "" {
		return nil, ErrMissingURL
	}

	return &model.FacilityRecord{
		URL:            raw.URL,
		Name:           raw.Name,
		Phones:         raw.Phones,
		Address:        raw.Address,
		Hours:          raw.Hours,
		Services:       raw.Services,
		Specialties:    raw.Specialties,
		Staff:          raw.Staff,
		Insurance:      raw.Insurance,
		ContactMethods: raw.ContactMethods,
		Quality:        AssessQuality(raw.QualityChecks),
		ScrapedAt:      time.Now().UTC(),
	}, nil
}
