package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scrapex/outreach-engine/internal/model"
)

const (
	maxPhones      = 5
	maxServices    = 15
	maxSpecialties = 10
	maxNameLen     = 200
	maxAddressLen  = 300
	maxHoursLen    = 500
)

var (
	phoneRe       = regexp.MustCompile(`\+?1?\s*\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})`)
	contactInfoRe = regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`)
	emailRe       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	bookingRe     = regexp.MustCompile(`(?i)book|appointment|schedule`)
	socialHrefRe  = regexp.MustCompile(`(?i)facebook|twitter|linkedin|instagram`)

	addressClassRe     = regexp.MustCompile(`(?i)address`)
	locationClassRe    = regexp.MustCompile(`(?i)location`)
	hoursClassRe       = regexp.MustCompile(`(?i)hours|schedule|operating`)
	staffClassRe       = regexp.MustCompile(`(?i)staff|team|provider|doctor|physician`)
	serviceClassRe     = regexp.MustCompile(`(?i)service|specialty`)
	contactFormClassRe = regexp.MustCompile(`(?i)contact`)
)

// serviceKeywords are matched against the lowercased page text.
var serviceKeywords = []string{
	"emergency", "urgent care", "surgery", "cardiology", "pediatrics",
	"orthopedics", "neurology", "oncology", "radiology", "laboratory",
	"physical therapy", "mental health", "psychiatry", "dermatology",
	"primary care", "family medicine", "internal medicine", "dental",
	"vision", "pharmacy", "rehabilitation", "hospice", "home health",
}

var specialtyKeywords = []string{
	"cardiologist", "neurologist", "orthopedic", "surgeon", "pediatrician",
	"dermatologist", "psychiatrist", "oncologist", "radiologist", "urologist",
	"gastroenterologist", "rheumatologist", "endocrinologist", "nephrologist",
}

// extract walks a parsed page and assembles the raw facility profile.
// scheme is the final URL scheme after redirects.
func extract(doc *goquery.Document, url, scheme string) *model.RawExtraction {
	text := doc.Text()
	lower := strings.ToLower(text)
	phones := extractPhones(text)

	return &model.RawExtraction{
		URL:         url,
		Name:        extractName(doc),
		Phones:      phones,
		Address:     extractAddress(doc),
		Hours:       extractHours(doc),
		Services:    matchKeywords(lower, serviceKeywords, maxServices),
		Specialties: matchKeywords(lower, specialtyKeywords, maxSpecialties),
		Staff:       extractStaff(doc),
		Insurance: model.InsuranceInfo{
			AcceptsInsurance: strings.Contains(lower, "insurance"),
			AcceptsMedicare:  strings.Contains(lower, "medicare"),
			AcceptsMedicaid:  strings.Contains(lower, "medicaid"),
			AcceptsTricare:   strings.Contains(lower, "tricare"),
		},
		ContactMethods: model.ContactMethods{
			Phone:         len(phones) > 0,
			Email:         emailRe.MatchString(text),
			ContactForm:   firstByClass(doc, "form", contactFormClassRe) != nil,
			OnlineBooking: bookingRe.MatchString(text),
		},
		QualityChecks: assessChecks(doc, text, scheme),
	}
}

// extractName tries common page elements in order of specificity.
func extractName(doc *goquery.Document) string {
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if name := strings.TrimSpace(h1.Text()); name != "" {
			return truncate(name, maxNameLen)
		}
	}
	if title := doc.Find("title").First(); title.Length() > 0 {
		if name := strings.TrimSpace(title.Text()); name != "" {
			return truncate(name, maxNameLen)
		}
	}
	for _, sel := range []string{`meta[property="og:title"]`, `meta[name="title"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if name := strings.TrimSpace(content); name != "" {
				return truncate(name, maxNameLen)
			}
		}
	}
	return ""
}

// extractPhones collects phone numbers in first-seen order, normalized
// to (XXX) XXX-XXXX, deduplicated, capped at maxPhones.
func extractPhones(text string) []string {
	var phones []string
	seen := make(map[string]struct{})
	for _, m := range phoneRe.FindAllStringSubmatch(text, -1) {
		phone := fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3])
		if _, ok := seen[phone]; ok {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
		if len(phones) == maxPhones {
			break
		}
	}
	return phones
}

func extractAddress(doc *goquery.Document) string {
	if addr := doc.Find("address").First(); addr.Length() > 0 {
		return truncate(strings.TrimSpace(addr.Text()), maxAddressLen)
	}
	for _, re := range []*regexp.Regexp{addressClassRe, locationClassRe} {
		if sel := firstByClass(doc, "", re); sel != nil {
			return truncate(strings.TrimSpace(sel.Text()), maxAddressLen)
		}
	}
	return ""
}

func extractHours(doc *goquery.Document) string {
	if sel := firstByClass(doc, "", hoursClassRe); sel != nil {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return truncate(text, maxHoursLen)
		}
	}
	return ""
}

func extractStaff(doc *goquery.Document) model.StaffInfo {
	count := countByClass(doc, staffClassRe)
	return model.StaffInfo{
		HasStaffSection: count > 0,
		StaffCount:      count,
	}
}

// matchKeywords returns title-cased keywords found in the page text, in
// keyword-list order, capped at limit.
func matchKeywords(lowerText string, keywords []string, limit int) []string {
	caser := cases.Title(language.English)
	var found []string
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			found = append(found, caser.String(kw))
			if len(found) == limit {
				break
			}
		}
	}
	return found
}

// assessChecks evaluates the ten-point quality checklist. The SSL check
// reflects the scheme the page was actually served over.
func assessChecks(doc *goquery.Document, text, scheme string) model.QualityChecks {
	return model.QualityChecks{
		HasTitle:           doc.Find("title").Length() > 0,
		HasMetaDescription: doc.Find(`meta[name="description"]`).Length() > 0,
		HasContactInfo:     contactInfoRe.MatchString(text),
		HasAddress:         doc.Find("address").Length() > 0,
		HasImages:          doc.Find("img").Length() > 3,
		HasServicesInfo:    countByClass(doc, serviceClassRe) > 0,
		IsMobileResponsive: doc.Find(`meta[name="viewport"]`).Length() > 0,
		HasSSL:             scheme == "https",
		HasSocialLinks:     hasSocialLinks(doc),
		HasNavigation:      doc.Find("nav").Length() > 0,
	}
}

func hasSocialLinks(doc *goquery.Document) bool {
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if socialHrefRe.MatchString(href) {
			found = true
			return false
		}
		return true
	})
	return found
}

// firstByClass returns the first element whose class attribute matches
// re, optionally restricted to a tag name.
func firstByClass(doc *goquery.Document, tag string, re *regexp.Regexp) *goquery.Selection {
	selector := "[class]"
	if tag != "" {
		selector = tag + "[class]"
	}
	var found *goquery.Selection
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if re.MatchString(class) {
			found = s
			return false
		}
		return true
	})
	return found
}

// countByClass counts elements whose class attribute matches re.
func countByClass(doc *goquery.Document, re *regexp.Regexp) int {
	count := 0
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if re.MatchString(class) {
			count++
		}
	})
	return count
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
