package notion

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// ImportCSV seeds the facility tracking database from a CSV file. The file
// must carry a url, website, or domain column; a name or facility column is
// optional. Rows are deduplicated by normalized URL and each unique row
// becomes a page with Status = "Queued". Returns the number of pages created.
func ImportCSV(ctx context.Context, c Client, dbID string, csvPath string) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, eris.Wrap(err, fmt.Sprintf("notion: open csv %s", csvPath))
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged exports
	records, err := reader.ReadAll()
	if err != nil {
		return 0, eris.Wrap(err, "notion: read csv")
	}

	if len(records) < 2 {
		return 0, nil // header only or empty
	}

	urlIdx, nameIdx := findColumns(records[0])
	if urlIdx < 0 {
		return 0, eris.New("notion: csv has no url or website column")
	}

	seen := make(map[string]struct{})
	created := 0

	for _, row := range records[1:] {
		if ctx.Err() != nil {
			return created, eris.Wrap(ctx.Err(), "notion: import csv cancelled")
		}

		u := ""
		if urlIdx < len(row) {
			u = normalizeURL(row[urlIdx])
		}
		if u == "" {
			continue // nothing to scrape
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		name := ""
		if nameIdx >= 0 && nameIdx < len(row) {
			name = strings.TrimSpace(row[nameIdx])
		}

		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: queuedPageProperties(name, u),
		}
		if _, err := c.CreatePage(ctx, req); err != nil {
			return created, eris.Wrap(err, fmt.Sprintf("notion: create page for %s", u))
		}
		created++
	}

	return created, nil
}

// findColumns locates the URL column and the optional facility name column in
// a CSV header row. Returns -1 for columns that are not present.
func findColumns(headers []string) (urlIdx, nameIdx int) {
	urlIdx, nameIdx = -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "url", "website", "domain":
			if urlIdx < 0 {
				urlIdx = i
			}
		case "name", "facility", "facility name":
			if nameIdx < 0 {
				nameIdx = i
			}
		}
	}
	return urlIdx, nameIdx
}

// queuedPageProperties builds the properties for a freshly imported facility:
// Name title, URL, and Status = "Queued" so the batch command picks it up.
// A facility with no name is titled by its URL.
func queuedPageProperties(name, url string) notionapi.Properties {
	if name == "" {
		name = url
	}
	return notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: name}},
			},
		},
		"URL": notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  url,
		},
		"Status": notionapi.StatusProperty{
			Status: notionapi.Status{
				Name: statusQueued,
			},
		},
	}
}

// normalizeURL ensures a domain has an https:// scheme prefix.
func normalizeURL(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ""
	}
	if !strings.Contains(domain, "://") {
		return "https://" + domain
	}
	return domain
}
