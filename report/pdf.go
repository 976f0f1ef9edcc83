package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"tiffcmyk/contracts"
	"tiffcmyk/utils"
)

const (
	pageWidth   = 190.0
	rowHeight   = 6.0
	statusWidth = 22.0
)

// RenderPDF lays out the totals followed by one row per job that did not
// convert.
func RenderPDF(b contracts.BatchReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("tiffcmyk batch report", true)
	pdf.SetCreator("tiffcmyk", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(pageWidth, 10, "Batch report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Direction: to %s", b.Direction),
		"Source: " + b.Source,
		"Destination: " + b.Destination,
		"Started: " + b.Started.Format(time.DateTime),
		"Duration: " + utils.FormatDuration(b.Finished.Sub(b.Started)),
		fmt.Sprintf("Completed: %d of %d (skipped %d, failed %d)", b.Converted, b.Total, b.Skipped, b.Failed),
	}
	for _, l := range lines {
		pdf.CellFormat(pageWidth, rowHeight, tr(fit(pdf, l, pageWidth)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if b.Skipped+b.Failed > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(statusWidth, rowHeight, "Status", "1", 0, "L", true, 0, "")
		pdf.CellFormat(pageWidth-statusWidth, rowHeight, "Source / reason", "1", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, r := range b.Results {
			if r.Succeeded() {
				continue
			}
			if r.Status == contracts.Failed {
				pdf.SetTextColor(170, 0, 0)
			} else {
				pdf.SetTextColor(0, 0, 0)
			}
			text := r.Job.Source
			if r.Reason != "" {
				text += ": " + r.Reason
			}
			pdf.CellFormat(statusWidth, rowHeight, string(r.Status), "1", 0, "L", false, 0, "")
			pdf.CellFormat(pageWidth-statusWidth, rowHeight, tr(fit(pdf, text, pageWidth-statusWidth-2)), "1", 1, "L", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit trims s from the left until it fits width, keeping the end of long
// paths visible.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth("..."+string(r)) > width {
		r = r[1:]
	}
	return "..." + string(r)
}
