// Package export turns ranked lead analyses into the formats the sales
// team consumes: XLSX workbooks and Salesforce Lead records.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/scrapex/outreach-engine/internal/model"
)

// leadHeader is the column layout of the ranked-leads worksheet.
var leadHeader = []string{
	"Rank", "Facility", "URL", "Lead Score", "Urgency",
	"Recommended Pitch", "Next Steps", "Analyzed At",
}

// WriteXLSX writes analyses to an XLSX workbook at path, one row per lead
// under a header row, in the order given (rank order when the input came
// from the ranker).
func WriteXLSX(path string, analyses []model.LeadAnalysis) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Ranked Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range leadHeader {
		header.AddCell().Value = col
	}

	for _, a := range analyses {
		row := sheet.AddRow()
		row.AddCell().SetInt(a.Rank)
		row.AddCell().Value = a.FacilityName
		row.AddCell().Value = a.URL
		row.AddCell().SetInt(a.LeadScore)
		row.AddCell().Value = string(a.Urgency)
		row.AddCell().Value = a.Pitch
		row.AddCell().Value = strings.Join(a.NextSteps, "; ")
		row.AddCell().Value = a.AnalyzedAt.Format(time.RFC3339)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrap(err, fmt.Sprintf("export: save workbook %s", path))
	}
	return nil
}
