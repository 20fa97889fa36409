package scraper

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scrapex/outreach-engine/internal/model"
)

// StubScraper produces a deterministic canned extraction without any
// network access. The facility name is derived from the URL host so
// distinct inputs stay distinguishable in demos and tests.
type StubScraper struct{}

func (StubScraper) Scrape(_ context.Context, rawURL string) (*model.RawExtraction, error) {
	if rawURL == "" {
		return nil, &ScrapeError{URL: rawURL, Err: ErrMissingURL}
	}

	return &model.RawExtraction{
		URL:         rawURL,
		Name:        stubName(rawURL),
		Phones:      []string{"(555) 123-4567"},
		Address:     "123 Main St, Springfield, IL",
		Hours:       "Mon-Fri 8am-5pm",
		Services:    []string{"Primary Care", "Urgent Care"},
		Specialties: nil,
		Staff:       model.StaffInfo{HasStaffSection: true, StaffCount: 4},
		Insurance: model.InsuranceInfo{
			AcceptsInsurance: true,
			AcceptsMedicare:  true,
		},
		ContactMethods: model.ContactMethods{Phone: true, Email: true},
		QualityChecks: model.QualityChecks{
			HasTitle:       true,
			HasContactInfo: true,
			HasImages:      true,
			HasSSL:         strings.HasPrefix(rawURL, "https://"),
			HasNavigation:  true,
		},
	}, nil
}

// stubName turns a URL host into a readable facility name.
func stubName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "Unknown Facility"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	label, _, _ := strings.Cut(host, ".")
	label = strings.ReplaceAll(label, "-", " ")
	if label == "" {
		return "Unknown Facility"
	}
	return cases.Title(language.English).String(label)
}
