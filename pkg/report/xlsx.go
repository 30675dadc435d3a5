package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Summary"
	findingsSheet = "Findings"
)

var findingColumns = []string{"Title", "Severity", "STRIDE category", "Status", "Source", "Description", "Remediation", "Created"}

// RenderXLSX builds a workbook with a Summary sheet and a Findings sheet.
func RenderXLSX(data *Data) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(findingsSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1E293B"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, data, header, bold); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeFindingsSheet(f, data, header); err != nil {
		return nil, fmt.Errorf("failed to write findings sheet: %w", err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, data *Data, header, bold int) error {
	row := 1
	put := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(summarySheet, cell, &values)
	}
	heading := func(title string) error {
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := put(title, "Count"); err != nil {
			return err
		}
		end, _ := excelize.CoordinatesToCellName(2, row-1)
		return f.SetCellStyle(summarySheet, cell, end, header)
	}

	if err := put(data.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", bold); err != nil {
		return err
	}
	if data.Organization != nil {
		if err := put("Organization", data.Organization.Name); err != nil {
			return err
		}
	}
	if err := put("Generated", data.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")); err != nil {
		return err
	}
	if data.ThreatModel != nil {
		if err := put("Threat model", data.ThreatModel.Name); err != nil {
			return err
		}
	}
	if err := put("Findings", data.Summary.Total); err != nil {
		return err
	}
	if err := put("Open findings", data.Summary.Open); err != nil {
		return err
	}

	groups := []struct {
		title  string
		counts []Count
	}{
		{"Severity", data.Summary.BySeverity},
		{"Status", data.Summary.ByStatus},
		{"STRIDE category", data.Summary.ByStride},
	}
	for _, g := range groups {
		if err := heading(g.title); err != nil {
			return err
		}
		for _, c := range g.counts {
			if err := put(Label(c.Label), c.Value); err != nil {
				return err
			}
		}
	}

	if d := data.Dashboard; d != nil {
		if err := heading("Compliance posture"); err != nil {
			return err
		}
		for _, kv := range []struct {
			label string
			value int64
		}{
			{"Assets", d.Assets},
			{"Assets without a threat model", d.AssetsWithoutModel},
			{"Open design reviews", d.OpenDesignReviews},
			{"Pending third-party reviews", d.PendingVendorReviews},
		} {
			if err := put(kv.label, kv.value); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(summarySheet, "A", "A", 36)
}

func writeFindingsSheet(f *excelize.File, data *Data, header int) error {
	cols := make([]interface{}, len(findingColumns))
	for i, c := range findingColumns {
		cols[i] = c
	}
	if err := f.SetSheetRow(findingsSheet, "A1", &cols); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(findingColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(findingsSheet, "A1", last, header); err != nil {
		return err
	}

	for i, finding := range data.Findings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			finding.Title,
			Label(finding.Severity.String()),
			Label(finding.StrideCategory.String()),
			Label(finding.Status.String()),
			finding.Source.String(),
			finding.Description,
			finding.Remediation,
			finding.CreatedAt.UTC().Format("2006-01-02"),
		}
		if err := f.SetSheetRow(findingsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(findingsSheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(findingsSheet, "F", "G", 60); err != nil {
		return err
	}
	if err := f.SetPanes(findingsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	lastRow, err := excelize.CoordinatesToCellName(len(findingColumns), len(data.Findings)+1)
	if err != nil {
		return err
	}
	return f.AutoFilter(findingsSheet, "A1:"+lastRow, nil)
}
