// Package export selects saved reviews and writes them as CSV or PDF.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/review-generator/internal/models"
)

var (
	ErrNoReviews      = errors.New("no reviews to download")
	ErrNoneSelected   = errors.New("no reviews selected")
	ErrInvalidIndices = errors.New("invalid indices")
)

// Header is the CSV column row
var Header = []string{
	"Timestamp", "Business Name", "Business Type", "Category",
	"Star Rating", "Language", "Use Case", "Review Text",
	"Character Count", "Tokens Used", "Method",
}

const missingTokens = "N/A"

// ParseIndices parses a comma separated index list such as "0,2,5"
func ParseIndices(param string) ([]int, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return nil, nil
	}
	parts := strings.Split(param, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIndices, part)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// Select picks records by position in newest-first order. With no indices
// every record is returned oldest first; indices past the end are skipped.
func Select(records []models.HistoryRecord, indices []int) ([]models.HistoryRecord, error) {
	if len(records) == 0 {
		return nil, ErrNoReviews
	}
	if len(indices) == 0 {
		return records, nil
	}

	newestFirst := slices.Clone(records)
	slices.Reverse(newestFirst)

	selected := make([]models.HistoryRecord, 0, len(indices))
	for _, i := range indices {
		if i < len(newestFirst) {
			selected = append(selected, newestFirst[i])
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoneSelected
	}
	return selected, nil
}

// WriteCSV writes the header and one row per record
func WriteCSV(w io.Writer, records []models.HistoryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		tokens := missingTokens
		if total, ok := rec.TokenUsage.TotalTokens(); ok {
			tokens = strconv.Itoa(total)
		}
		row := []string{
			rec.Timestamp,
			rec.BusinessName,
			rec.BusinessType,
			rec.Category,
			strconv.Itoa(rec.StarRating),
			rec.Language,
			rec.UseCase,
			rec.Review,
			strconv.Itoa(rec.CharCount),
			tokens,
			rec.Method,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
