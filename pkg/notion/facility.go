package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Status values used by the facility tracking database.
const (
	statusQueued   = "Queued"
	statusAnalyzed = "Analyzed"
	statusFailed   = "Failed"
)

// maxErrorLen caps the error text written back to a page so it stays
// readable in a table cell.
const maxErrorLen = 200

// QueuedFacility is one row of the facility tracking database: a healthcare
// facility waiting to be scraped and scored.
type QueuedFacility struct {
	PageID string
	Name   string
	URL    string
}

// QueryQueuedFacilities fetches every page with Status = "Queued" and extracts
// the facility name and URL from each. Pages without a URL are dropped since
// there is nothing to scrape.
func QueryQueuedFacilities(ctx context.Context, c Client, dbID string) ([]QueuedFacility, error) {
	filter := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Status",
			Status: &notionapi.StatusFilterCondition{
				Equals: statusQueued,
			},
		},
	}
	pages, err := QueryAll(ctx, c, dbID, filter)
	if err != nil {
		return nil, eris.Wrap(err, "notion: query queued facilities")
	}

	facilities := make([]QueuedFacility, 0, len(pages))
	for _, page := range pages {
		f := pageToFacility(page)
		if f.URL == "" {
			continue
		}
		facilities = append(facilities, f)
	}
	return facilities, nil
}

// pageToFacility reads the Name title and URL properties off a page. Anything
// else on the page is ignored.
func pageToFacility(page notionapi.Page) QueuedFacility {
	f := QueuedFacility{
		PageID: string(page.ID),
	}

	if prop, ok := page.Properties["Name"]; ok {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			for _, rt := range tp.Title {
				f.Name += rt.PlainText
			}
		}
	}

	if prop, ok := page.Properties["URL"]; ok {
		if up, ok := prop.(*notionapi.URLProperty); ok {
			f.URL = up.URL
		}
	}

	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)

	return f
}

// MarkAnalyzed flips a facility page to Status = "Analyzed" and records the
// lead score and analysis time.
func MarkAnalyzed(ctx context.Context, c Client, pageID string, score int) error {
	now := notionapi.Date(time.Now())
	_, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			"Status": notionapi.StatusProperty{
				Status: notionapi.Status{
					Name: statusAnalyzed,
				},
			},
			"Lead Score": notionapi.NumberProperty{
				Number: float64(score),
			},
			"Last Analyzed": notionapi.DateProperty{
				Date: &notionapi.DateObject{
					Start: &now,
				},
			},
		},
	})
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("notion: mark page %s analyzed", pageID))
	}
	return nil
}

// MarkFailed flips a facility page to Status = "Failed" and writes the cause
// into the Error property, truncated to fit.
func MarkFailed(ctx context.Context, c Client, pageID string, cause error) error {
	errMsg := "unknown error"
	if cause != nil {
		errMsg = cause.Error()
	}
	if len(errMsg) > maxErrorLen {
		errMsg = errMsg[:maxErrorLen]
	}

	now := notionapi.Date(time.Now())
	_, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			"Status": notionapi.StatusProperty{
				Status: notionapi.Status{
					Name: statusFailed,
				},
			},
			"Error": notionapi.RichTextProperty{
				Type: notionapi.PropertyTypeRichText,
				RichText: []notionapi.RichText{
					{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: errMsg}},
				},
			},
			"Last Analyzed": notionapi.DateProperty{
				Date: &notionapi.DateObject{
					Start: &now,
				},
			},
		},
	})
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("notion: mark page %s failed", pageID))
	}
	return nil
}
