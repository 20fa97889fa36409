package model

import "time"

// QualityChecks is the fixed checklist of website signals evaluated for
// every scraped facility. Absent signals are false.
type QualityChecks struct {
	HasTitle           bool `json:"has_title"`
	HasMetaDescription bool `json:"has_meta_description"`
	HasContactInfo     bool `json:"has_contact_info"`
	HasAddress         bool `json:"has_address"`
	HasImages          bool `json:"has_images"`
	HasServicesInfo    bool `json:"has_services_info"`
	IsMobileResponsive bool `json:"is_mobile_responsive"`
	HasSSL             bool `json:"has_ssl"`
	HasSocialLinks     bool `json:"has_social_links"`
	HasNavigation      bool `json:"has_navigation"`
}

// Count returns the number of checks that passed.
func (c QualityChecks) Count() int {
	n := 0
	for _, ok := range []bool{
		c.HasTitle, c.HasMetaDescription, c.HasContactInfo, c.HasAddress,
		c.HasImages, c.HasServicesInfo, c.IsMobileResponsive, c.HasSSL,
		c.HasSocialLinks, c.HasNavigation,
	} {
		if ok {
			n++
		}
	}
	return n
}

// QualityAssessment scores a website against the fixed checklist.
// Score and Percentage are always derived from Checks, never stored
// independently.
type QualityAssessment struct {
	Score      int           `json:"score"`
	MaxScore   int           `json:"max_score"`
	Percentage float64       `json:"percentage"`
	Checks     QualityChecks `json:"checks"`
}

// StaffInfo captures whether the site has a staff or provider section.
type StaffInfo struct {
	HasStaffSection bool `json:"has_staff_section"`
	StaffCount      int  `json:"staff_count,omitempty"`
}

// InsuranceInfo holds insurance-acceptance keyword flags.
type InsuranceInfo struct {
	AcceptsInsurance bool `json:"accepts_insurance"`
	AcceptsMedicare  bool `json:"accepts_medicare"`
	AcceptsMedicaid  bool `json:"accepts_medicaid"`
	AcceptsTricare   bool `json:"accepts_tricare"`
}

// ContactMethods holds the contact channels detected on the site.
type ContactMethods struct {
	Phone         bool `json:"phone"`
	Email         bool `json:"email"`
	ContactForm   bool `json:"contact_form"`
	OnlineBooking bool `json:"online_booking"`
}

// RawExtraction is the unnormalized output of a single page scrape.
// Phones are deduplicated in first-seen order and capped at 5; services
// and specialties are capped at 15 and 10. Immutable once produced.
type RawExtraction struct {
	URL            string         `json:"url"`
	Name           string         `json:"facility_name,omitempty"`
	Phones         []string       `json:"phone,omitempty"`
	Address        string         `json:"address,omitempty"`
	Hours          string         `json:"hours,omitempty"`
	Services       []string       `json:"services,omitempty"`
	Specialties    []string       `json:"specialties,omitempty"`
	Staff          StaffInfo      `json:"staff_info"`
	Insurance      InsuranceInfo  `json:"insurance"`
	ContactMethods ContactMethods `json:"contact_methods"`
	QualityChecks  QualityChecks  `json:"quality_checks"`
}

// FacilityRecord is the normalized, scored view of a scraped facility.
// Created once per scrape and never mutated afterwards.
type FacilityRecord struct {
	URL            string            `json:"url"`
	Name           string            `json:"facility_name"`
	Phones         []string          `json:"phone,omitempty"`
	Address        string            `json:"address,omitempty"`
	Hours          string            `json:"hours,omitempty"`
	Services       []string          `json:"services,omitempty"`
	Specialties    []string          `json:"specialties,omitempty"`
	Staff          StaffInfo         `json:"staff_info"`
	Insurance      InsuranceInfo     `json:"insurance"`
	ContactMethods ContactMethods    `json:"contact_methods"`
	Quality        QualityAssessment `json:"website_quality"`
	ScrapedAt      time.Time         `json:"scraped_at"`
}
