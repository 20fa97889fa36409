package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Lead represents a Salesforce Lead record for a scored facility.
type Lead struct {
	ID          string `json:"Id" salesforce:"Id"`
	Company     string `json:"Company" salesforce:"Company"`
	LastName    string `json:"LastName" salesforce:"LastName"`
	Website     string `json:"Website" salesforce:"Website"`
	Phone       string `json:"Phone" salesforce:"Phone"`
	LeadSource  string `json:"LeadSource" salesforce:"LeadSource"`
	Rating      string `json:"Rating" salesforce:"Rating"`
	Status      string `json:"Status" salesforce:"Status"`
	Description string `json:"Description" salesforce:"Description"`
}

// leadFields are the SOQL fields selected for Lead queries.
var leadFields = []string{
	"Id", "Company", "LastName", "Website", "Phone",
	"LeadSource", "Rating", "Status", "Description",
}

// defaultLastName fills the required Lead.LastName when no contact person
// is known for a facility.
const defaultLastName = "Front Desk"

// FindLeadByWebsite queries Salesforce for a Lead matching the given website.
// Returns nil if no lead is found.
func FindLeadByWebsite(ctx context.Context, c Client, website string) (*Lead, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Lead WHERE Website = '%s' LIMIT 1",
		strings.Join(leadFields, ", "),
		escapeSoql(website),
	)

	var leads []Lead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find lead by website %s", website))
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return &leads[0], nil
}

// UpsertLead creates or updates the Lead whose Website matches lead.Website,
// so repeat exports of the same facility refresh one record instead of
// duplicating it. Returns the Salesforce record ID.
func UpsertLead(ctx context.Context, c Client, lead Lead) (string, error) {
	if lead.Company == "" {
		return "", eris.New("sf: lead company is required")
	}
	if lead.Website == "" {
		return "", eris.New("sf: lead website is required")
	}

	existing, err := FindLeadByWebsite(ctx, c, lead.Website)
	if err != nil {
		return "", err
	}

	fields := leadFieldMap(lead)
	if existing != nil {
		if err := c.UpdateOne(ctx, "Lead", existing.ID, fields); err != nil {
			return "", eris.Wrap(err, fmt.Sprintf("sf: upsert lead %s", lead.Website))
		}
		return existing.ID, nil
	}

	id, err := c.InsertOne(ctx, "Lead", fields)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("sf: upsert lead %s", lead.Website))
	}
	return id, nil
}

// leadFieldMap converts a Lead into the writable field map for insert and
// update calls. LastName is required by Salesforce and defaults when empty.
func leadFieldMap(lead Lead) map[string]any {
	lastName := lead.LastName
	if lastName == "" {
		lastName = defaultLastName
	}

	fields := map[string]any{
		"Company":  lead.Company,
		"LastName": lastName,
		"Website":  lead.Website,
	}
	if lead.Phone != "" {
		fields["Phone"] = lead.Phone
	}
	if lead.LeadSource != "" {
		fields["LeadSource"] = lead.LeadSource
	}
	if lead.Rating != "" {
		fields["Rating"] = lead.Rating
	}
	if lead.Status != "" {
		fields["Status"] = lead.Status
	}
	if lead.Description != "" {
		fields["Description"] = lead.Description
	}
	return fields
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
