package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/internal/scraper"
)

// mockScraper serves canned extractions keyed by URL and tracks how many
// Scrape calls overlap.
type mockScraper struct {
	mu     sync.Mutex
	raws   map[string]*model.RawExtraction
	errs   map[string]error
	delay  time.Duration
	calls  int
	active int
	peak   int
}

func (m *mockScraper) Scrape(_ context.Context, url string) (*model.RawExtraction, error) {
	m.mu.Lock()
	m.calls++
	m.active++
	if m.active > m.peak {
		m.peak = m.active
	}
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	raw, err := m.raws[url], m.errs[url]
	m.active--
	m.mu.Unlock()

	if err != nil {
		return nil, &scraper.ScrapeError{URL: url, Err: err}
	}
	if raw == nil {
		return nil, &scraper.ScrapeError{URL: url, Err: errors.New("no fixture")}
	}
	return raw, nil
}

func (m *mockScraper) concurrencyPeak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// mockArchiver records archived rows and can fail on demand.
type mockArchiver struct {
	mu         sync.Mutex
	facilities []model.FacilityRecord
	analyses   []model.LeadAnalysis
	batches    [][]model.LeadAnalysis
	failWith   error
}

func (m *mockArchiver) SaveFacility(_ context.Context, rec model.FacilityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.facilities = append(m.facilities, rec)
	return nil
}

func (m *mockArchiver) SaveAnalysis(_ context.Context, analysis model.LeadAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.analyses = append(m.analyses, analysis)
	return nil
}

func (m *mockArchiver) SaveAnalyses(_ context.Context, analyses []model.LeadAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.batches = append(m.batches, analyses)
	return nil
}

// richRaw scores 89 under baseline scoring: phone, address, services, and
// four passing quality checks.
func richRaw(url, name string) *model.RawExtraction {
	return &model.RawExtraction{
		URL:      url,
		Name:     name,
		Phones:   []string{"(555) 123-4567"},
		Address:  "123 Main St, Springfield, IL",
		Services: []string{"Primary Care", "Urgent Care"},
		QualityChecks: model.QualityChecks{
			HasTitle:       true,
			HasContactInfo: true,
			HasAddress:     true,
			HasSSL:         true,
		},
	}
}

// midRaw scores 62 under baseline scoring: a phone and two checks.
func midRaw(url, name string) *model.RawExtraction {
	return &model.RawExtraction{
		URL:    url,
		Name:   name,
		Phones: []string{"(555) 987-6543"},
		QualityChecks: model.QualityChecks{
			HasTitle: true,
			HasSSL:   true,
		},
	}
}

// bareRaw scores 50 under baseline scoring: a URL and nothing else.
func bareRaw(url string) *model.RawExtraction {
	return &model.RawExtraction{URL: url}
}
