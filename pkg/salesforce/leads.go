package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// maxBatchSize is the Salesforce Collections API limit per request.
const maxBatchSize = 200

// UpsertLeads creates or updates leads in bulk, keyed on Website. Leads whose
// website already exists in Salesforce are updated through the Collections
// API and the rest are inserted, in batches of 200. Update results precede
// insert results in the returned slice.
func UpsertLeads(ctx context.Context, c Client, leads []Lead) ([]CollectionResult, error) {
	if len(leads) == 0 {
		return nil, nil
	}

	websites := make([]string, len(leads))
	for i, lead := range leads {
		if lead.Website == "" {
			return nil, eris.New(fmt.Sprintf("sf: lead %d (%s) has no website", i, lead.Company))
		}
		websites[i] = lead.Website
	}

	existing, err := findLeadIDsByWebsite(ctx, c, websites)
	if err != nil {
		return nil, err
	}

	var (
		updates []CollectionRecord
		inserts []map[string]any
	)
	for _, lead := range leads {
		fields := leadFieldMap(lead)
		if id, ok := existing[lead.Website]; ok {
			updates = append(updates, CollectionRecord{ID: id, Fields: fields})
			continue
		}
		inserts = append(inserts, fields)
	}

	var allResults []CollectionResult

	for start := 0; start < len(updates); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(updates) {
			end = len(updates)
		}
		results, err := c.UpdateCollection(ctx, "Lead", updates[start:end])
		if err != nil {
			return allResults, eris.Wrap(err, fmt.Sprintf("sf: bulk update leads batch %d-%d", start, end))
		}
		allResults = append(allResults, results...)
	}

	for start := 0; start < len(inserts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(inserts) {
			end = len(inserts)
		}
		results, err := c.InsertCollection(ctx, "Lead", inserts[start:end])
		if err != nil {
			return allResults, eris.Wrap(err, fmt.Sprintf("sf: bulk insert leads batch %d-%d", start, end))
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

// findLeadIDsByWebsite resolves existing Lead record IDs for the given
// websites. The IN clause is chunked so the SOQL statement stays under the
// query length cap.
func findLeadIDsByWebsite(ctx context.Context, c Client, websites []string) (map[string]string, error) {
	ids := make(map[string]string, len(websites))

	for start := 0; start < len(websites); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(websites) {
			end = len(websites)
		}

		quoted := make([]string, 0, end-start)
		for _, w := range websites[start:end] {
			quoted = append(quoted, "'"+escapeSoql(w)+"'")
		}
		soql := fmt.Sprintf(
			"SELECT Id, Website FROM Lead WHERE Website IN (%s)",
			strings.Join(quoted, ", "),
		)

		var leads []Lead
		if err := c.Query(ctx, soql, &leads); err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("sf: find leads batch %d-%d", start, end))
		}
		for _, l := range leads {
			ids[l.Website] = l.ID
		}
	}

	return ids, nil
}
