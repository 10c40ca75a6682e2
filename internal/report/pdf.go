package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SaveReportPDF renders the given verification report into a PDF
// document, stamped with a QR code of the report digest.
func SaveReportPDF(rep Report, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FITS Verification Report", false)
	pdf.SetAuthor("fitsverify", false)
	pdf.SetCreator("fitsverify", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "FITS Verification Report")
	addSummarySection(pdf, rep)
	addFileTableSection(pdf, rep.Files)
	addFindingsSection(pdf, rep.Files)
	addDigestStamp(pdf, rep)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addSummarySection(pdf *gofpdf.Fpdf, rep Report) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Engine", value: rep.Version + " (reader " + rep.ReaderVersion + ")"},
		{label: "Files", value: strconv.Itoa(len(rep.Files))},
		{label: "Total Errors", value: strconv.FormatInt(rep.TotalErrors, 10)},
		{label: "Total Warnings", value: strconv.FormatInt(rep.TotalWarnings, 10)},
		{label: "Overall", value: passLabel(rep.Pass())},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addFileTableSection(pdf *gofpdf.Fpdf, files []FileReport) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Files")
	pdf.Ln(9)

	headers := []string{"File", "HDUs", "Warnings", "Errors", "Status"}
	widths := []float64{92, 18, 22, 22, 26}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	lineHeight := 5.0
	for _, fr := range files {
		status := "OK"
		if fr.Aborted {
			status = "ABORTED"
		} else if fr.NumErrors > 0 {
			status = "FAILED"
		} else if fr.NumWarnings > 0 {
			status = "WARNINGS"
		}
		values := []string{
			fr.File,
			strconv.Itoa(fr.NumHDUs),
			strconv.Itoa(fr.NumWarnings),
			strconv.Itoa(fr.NumErrors),
			status,
		}
		renderTableRow(pdf, widths, values, lineHeight)
	}
	pdf.Ln(4)
}

func addFindingsSection(pdf *gofpdf.Fpdf, files []FileReport) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Findings")
	pdf.Ln(9)

	total := 0
	for _, fr := range files {
		for _, m := range fr.Messages {
			if m.Severity == "info" {
				continue
			}
			total++
			pdf.SetFont("Helvetica", "B", 10)
			header := fmt.Sprintf("%d. [%s] code %d, HDU %d (%s)", total, strings.ToUpper(m.Severity), m.Code, m.HDU, fr.File)
			pdf.MultiCell(0, 5, header, "", "L", false)

			if msg := strings.TrimSpace(m.Text); msg != "" {
				pdf.SetFont("Helvetica", "", 10)
				pdf.MultiCell(0, 5, msg, "", "L", false)
			}
			if m.FixHint != "" {
				pdf.SetFont("Helvetica", "", 9)
				pdf.MultiCell(0, 4, "Fix: "+m.FixHint, "", "L", false)
			}
			if m.Explain != "" {
				pdf.SetFont("Helvetica", "", 9)
				pdf.MultiCell(0, 4, "Explanation: "+m.Explain, "", "L", false)
			}
			pdf.Ln(2)
		}
	}
	if total == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No findings recorded.", "", "L", false)
	}
}

func addDigestStamp(pdf *gofpdf.Fpdf, rep Report) {
	digest, err := rep.Digest()
	if err != nil {
		return
	}
	png, err := DigestToQR(digest, 256)
	if err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("report-digest", opts, bytes.NewReader(png))
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Report Digest")
	pdf.Ln(10)
	pdf.ImageOptions("report-digest", 15, pdf.GetY(), 40, 40, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 44)
	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 4, digest, "", "L", false)
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * lineHeight
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		cellText := strings.Join(lines, "\n")
		pdf.MultiCell(widths[i], lineHeight, cellText, "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+rowHeight)
}

func passLabel(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
