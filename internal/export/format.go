package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "csv" or "pdf" in any case; empty means CSV
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: csv, pdf)", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the attachment name for an export made at now
func Filename(now time.Time, format Format) string {
	return "reviews_" + now.Format("20060102_150405") + "." + string(format)
}

// Write renders records in the given format. now is stamped into PDF reports.
func Write(w io.Writer, format Format, records []models.HistoryRecord, now time.Time) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatPDF:
		return WritePDF(w, records, now)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}
