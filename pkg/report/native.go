package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/bguard/bguard-suite/pkg/model"
)

var severityColors = map[string][3]int{
	"CRITICAL": {153, 27, 27},
	"HIGH":     {220, 38, 38},
	"MEDIUM":   {217, 119, 6},
	"LOW":      {37, 99, 235},
	"INFO":     {100, 116, 139},
}

// NativeRenderer draws the report with fpdf, without a browser. Markdown is
// printed as plain text.
type NativeRenderer struct {
	noCompress bool
}

func NewNativeRenderer() *NativeRenderer {
	return &NativeRenderer{}
}

func (n *NativeRenderer) RenderPDF(ctx context.Context, data *Data) ([]byte, error) {
	_, span := tracer.Start(ctx, "report.native.render")
	defer span.End()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!n.noCompress)
	pdf.SetTitle(data.Title, true)
	pdf.SetCreator("bguard", true)
	pdf.SetMargins(14, 18, 14)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("")

	w := &nativeWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 6, w.tr(fmt.Sprintf("%s - page %d of {nb}", data.Title, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	w.header(data)
	if data.ThreatModel != nil {
		w.threatModel(data)
	}
	w.summary(data.Summary)
	if data.Dashboard != nil {
		w.section("Compliance posture")
		w.keyValues([][2]string{
			{"Assets", fmt.Sprint(data.Dashboard.Assets)},
			{"Assets without a threat model", fmt.Sprint(data.Dashboard.AssetsWithoutModel)},
			{"Open design reviews", fmt.Sprint(data.Dashboard.OpenDesignReviews)},
			{"Pending third-party reviews", fmt.Sprint(data.Dashboard.PendingVendorReviews)},
		})
	}
	if len(data.DesignReviews) > 0 {
		w.section("Design reviews")
		rows := make([][]string, 0, len(data.DesignReviews))
		for _, r := range data.DesignReviews {
			rows = append(rows, []string{r.Title, Label(r.Status.String()), r.UpdatedAt.UTC().Format("2006-01-02")})
		}
		w.table([]string{"Title", "Status", "Updated"}, []float64{110, 45, 27}, rows)
	}
	if len(data.VendorReviews) > 0 {
		w.section("Third-party reviews")
		rows := make([][]string, 0, len(data.VendorReviews))
		for _, r := range data.VendorReviews {
			rows = append(rows, []string{r.VendorName, Label(r.Status.String()), dash(r.RiskRating), dash(r.DataClassification)})
		}
		w.table([]string{"Vendor", "Status", "Risk rating", "Data classification"}, []float64{70, 35, 32, 45}, rows)
	}
	if len(data.Findings) > 0 {
		w.findings(data)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render report pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type nativeWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *nativeWriter) header(data *Data) {
	pdf := w.pdf
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 41, 59)
	pdf.MultiCell(0, 9, w.tr(data.Title), "", "L", false)

	meta := fmt.Sprintf("%s report generated %s", Label(data.Kind.String()), data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	if data.Organization != nil {
		meta = data.Organization.Name + " - " + meta
	}
	if data.GeneratedBy != "" {
		meta += " by " + data.GeneratedBy
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.MultiCell(0, 5, w.tr(meta), "", "L", false)
	pdf.Ln(2)
}

func (w *nativeWriter) section(title string) {
	pdf := w.pdf
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 8, w.tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (w *nativeWriter) paragraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.SetTextColor(30, 41, 59)
	w.pdf.MultiCell(0, 5, w.tr(text), "", "L", false)
	w.pdf.Ln(1)
}

func (w *nativeWriter) keyValues(rows [][2]string) {
	pdf := w.pdf
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(70, 7, w.tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 7, w.tr(row[1]), "1", 1, "L", false, 0, "")
	}
}

func (w *nativeWriter) table(headers []string, widths []float64, rows [][]string) {
	pdf := w.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, w.tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, w.tr(truncate(cell, 70)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (w *nativeWriter) threatModel(data *Data) {
	tm := data.ThreatModel
	w.section("Threat model")
	w.keyValues([][2]string{
		{"Name", tm.Name},
		{"Status", Label(tm.Status.String())},
	})
	w.pdf.Ln(2)
	w.paragraph(tm.SystemScope)
	w.paragraph(tm.Description)

	if len(tm.Assets) > 0 {
		w.section("Assets")
		rows := make([][]string, 0, len(tm.Assets))
		for _, a := range tm.Assets {
			criticality := ""
			if a.Criticality.IsASeverity() {
				criticality = Label(a.Criticality.String())
			}
			rows = append(rows, []string{a.Name, Label(a.Type.String()), dash(criticality), dash(a.Environment)})
		}
		w.table([]string{"Name", "Type", "Criticality", "Environment"}, []float64{72, 40, 30, 40}, rows)
	}
}

func (w *nativeWriter) summary(s Summary) {
	w.section("Summary")
	w.paragraph(fmt.Sprintf("%d findings, %d open.", s.Total, s.Open))

	rows := make([][]string, 0, len(s.ByStride))
	for i, c := range s.ByStride {
		row := []string{"", "", "", "", Label(c.Label), fmt.Sprint(c.Value)}
		if i < len(s.BySeverity) {
			row[0], row[1] = Label(s.BySeverity[i].Label), fmt.Sprint(s.BySeverity[i].Value)
		}
		if i < len(s.ByStatus) {
			row[2], row[3] = Label(s.ByStatus[i].Label), fmt.Sprint(s.ByStatus[i].Value)
		}
		rows = append(rows, row)
	}
	w.table(
		[]string{"Severity", "Count", "Status", "Count", "STRIDE category", "Count"},
		[]float64{28, 15, 33, 15, 76, 15},
		rows,
	)
}

func (w *nativeWriter) findings(data *Data) {
	pdf := w.pdf
	w.section("Findings")
	for _, f := range data.Findings {
		color, ok := severityColors[f.Severity.String()]
		if !ok {
			color = severityColors["INFO"]
		}
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(22, 6, w.tr(Label(f.Severity.String())), "", 0, "C", true, 0, "")
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(0, 6, w.tr(" "+truncate(f.Title, 90)), "", 1, "L", false, 0, "")

		meta := Label(f.StrideCategory.String()) + " - " + Label(f.Status.String())
		if f.Source == model.FindingSourceAI {
			meta += " - AI-assisted"
		}
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 5, w.tr(meta), "", 1, "L", false, 0, "")

		w.paragraph(f.Description)
		if strings.TrimSpace(f.Remediation) != "" {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(30, 41, 59)
			pdf.CellFormat(0, 6, "Remediation", "", 1, "L", false, 0, "")
			w.paragraph(f.Remediation)
		}
		pdf.Ln(3)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
