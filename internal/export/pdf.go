package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin      = 25.4 // one inch, in mm
	pdfLabelWidth  = 38.0
	pdfValueWidth  = 100.0
	pdfRowHeight   = 7.0
	pdfTextHeight  = 5.0
	pdfTitleSize   = 20
	pdfHeadingSize = 13
	pdfBodySize    = 10
	pdfFont        = "Helvetica"
	pdfMissing     = "N/A"
	pdfTitle       = "Review Generator - Export Report"
)

// WritePDF writes a report with one section per record: a metadata table,
// the review text and its character and token counts. Core fonts only carry
// Windows-1252, so runes outside it are substituted.
func WritePDF(w io.Writer, records []models.HistoryRecord, now time.Time) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin/2)
	pdf.SetTitle(pdfTitle, true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCatalogSort(true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", pdfTitleSize)
	pdf.SetTextColor(0x66, 0x7e, 0xea)
	pdf.CellFormat(0, 12, tr(pdfTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "", pdfBodySize)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, pdfTextHeight, "Generated on: "+now.Format(models.TimestampLayout), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfTextHeight, "Total Reviews: "+strconv.Itoa(len(records)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for i, rec := range records {
		writeRecordPDF(pdf, tr, i+1, rec)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeRecordPDF(pdf *fpdf.Fpdf, tr func(string) string, n int, rec models.HistoryRecord) {
	pdf.SetFont(pdfFont, "B", pdfHeadingSize)
	pdf.SetTextColor(0x76, 0x4b, 0xa2)
	pdf.CellFormat(0, 9, fmt.Sprintf("Review #%d", n), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetDrawColor(0x80, 0x80, 0x80)
	pdf.SetFillColor(0xf0, 0xf0, 0xf0)
	for _, row := range pdfRows(rec) {
		pdf.SetFont(pdfFont, "B", pdfBodySize)
		pdf.CellFormat(pdfLabelWidth, pdfRowHeight, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont(pdfFont, "", pdfBodySize)
		pdf.CellFormat(pdfValueWidth, pdfRowHeight, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", pdfBodySize)
	pdf.CellFormat(0, pdfTextHeight, "Review:", "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", pdfBodySize)
	pdf.MultiCell(0, pdfTextHeight, tr(orMissing(rec.Review)), "", "L", false)
	pdf.Ln(2)

	tokens := pdfMissing
	if total, ok := rec.TokenUsage.TotalTokens(); ok {
		tokens = strconv.Itoa(total)
	}
	pdf.SetFont(pdfFont, "I", pdfBodySize)
	pdf.CellFormat(0, pdfTextHeight, fmt.Sprintf("Characters: %d | Tokens: %s", rec.CharCount, tokens), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

func pdfRows(rec models.HistoryRecord) [][2]string {
	return [][2]string{
		{"Business Name:", orMissing(rec.BusinessName)},
		{"Type:", orMissing(rec.BusinessType)},
		{"Category:", orMissing(rec.Category)},
		{"Rating:", stars(rec.StarRating)},
		{"Language:", orMissing(rec.Language)},
		{"Use Case:", orMissing(rec.UseCase)},
		{"Date:", orMissing(rec.Timestamp)},
	}
}

// stars renders a rating with ASCII asterisks; the core fonts have no star glyph
func stars(rating int) string {
	if rating <= 0 {
		return pdfMissing
	}
	return fmt.Sprintf("%s (%d/5)", strings.Repeat("*", rating), rating)
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return pdfMissing
	}
	return s
}
