package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records() []models.HistoryRecord {
	return []models.HistoryRecord{
		{Timestamp: "2025-01-01 10:00:00", BusinessName: "Oldest", StarRating: 3, Review: "first", CharCount: 5,
			TokenUsage: models.TokenUsage{"total_tokens": 80.0}, Method: models.MethodAPI},
		{Timestamp: "2025-01-02 10:00:00", BusinessName: "Middle", StarRating: 4, Review: "second, with comma", CharCount: 18,
			Method: models.MethodAPI},
		{Timestamp: "2025-01-03 10:00:00", BusinessName: "Newest", StarRating: 5, Review: "third", CharCount: 5,
			TokenUsage: models.TokenUsage{"total_tokens": 91.0}, Method: models.MethodAPI},
	}
}

func TestParseIndices(t *testing.T) {
	got, err := ParseIndices("0, 2,5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 5}, got)

	got, err = ParseIndices("")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"a", "1,,2", "-1", "1.5"} {
		_, err := ParseIndices(bad)
		assert.ErrorIs(t, err, ErrInvalidIndices, bad)
	}
}

func TestSelect(t *testing.T) {
	all, err := Select(records(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Oldest", all[0].BusinessName)

	picked, err := Select(records(), []int{0, 2, 9})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "Newest", picked[0].BusinessName)
	assert.Equal(t, "Oldest", picked[1].BusinessName)

	_, err = Select(nil, nil)
	assert.ErrorIs(t, err, ErrNoReviews)

	_, err = Select(records(), []int{7, 8})
	assert.ErrorIs(t, err, ErrNoneSelected)
}

func TestSelectDoesNotReorderInput(t *testing.T) {
	in := records()
	_, err := Select(in, []int{0})
	require.NoError(t, err)
	assert.Equal(t, "Oldest", in[0].BusinessName)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{
		"2025-01-01 10:00:00", "Oldest", "", "", "3", "", "", "first", "5", "80", "api",
	}, rows[1])
	assert.Equal(t, "second, with comma", rows[2][7])
	assert.Equal(t, "N/A", rows[2][9])
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "reviews_20250314_093005.csv", Filename(at, FormatCSV))
	assert.Equal(t, "reviews_20250314_093005.pdf", Filename(at, FormatPDF))
}
