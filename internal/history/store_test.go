package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Conceptual-Machines/review-generator/internal/config"
	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(review string) models.HistoryRecord {
	return models.HistoryRecord{
		Timestamp:    "2026-01-02 10:00:00",
		BusinessName: "Sunrise Cafe",
		BusinessType: "restaurant",
		Category:     "Food & Beverage",
		StarRating:   5,
		Language:     models.LanguageEnglish,
		UseCase:      models.UseCaseCustomerReview,
		Review:       review,
		CharCount:    len(review),
		TokenUsage:   models.TokenUsage{"total_tokens": 50.0},
		Method:       models.MethodAPI,
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.jsonl"))
	records := store.Load(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFileStoreAppendThenLoad(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))

	require.NoError(t, store.Append(ctx, record("first review")))
	require.NoError(t, store.Append(ctx, record("second review")))

	records := store.Load(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "first review", records[0].Review)
	assert.Equal(t, "second review", records[1].Review)
	assert.Equal(t, 50.0, records[1].TokenUsage["total_tokens"])
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"review":"ok one"}` + "\n" + `{"review": broken` + "\n" + `{"review":"ok two"}` + "\n" + `{"review":"torn`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records := NewFileStore(path).Load(context.Background())
	require.Len(t, records, 2)
	assert.Equal(t, "ok one", records[0].Review)
	assert.Equal(t, "ok two", records[1].Review)
}

func TestFileStoreCorruptLegacyArrayIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews_history.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"review": "x"`), 0o644))

	assert.Empty(t, NewFileStore(path).Load(context.Background()))
}

func TestFileStoreReadsAndConvertsLegacyArray(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reviews_history.json")
	legacy := `[
  {"timestamp": "2025-11-01 12:00:00", "business_name": "Old Shop", "star_rating": 4, "review": "legacy one", "token_usage": {}},
  {"timestamp": "2025-11-02 12:00:00", "business_name": "Old Shop", "star_rating": 3, "review": "legacy two", "token_usage": {}}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store := NewFileStore(path)
	records := store.Load(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "Old Shop", records[0].BusinessName)

	require.NoError(t, store.Append(ctx, record("fresh review")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(strings.TrimSpace(string(data)), "["))

	records = store.Load(ctx)
	require.Len(t, records, 3)
	assert.Equal(t, "legacy two", records[1].Review)
	assert.Equal(t, "fresh review", records[2].Review)
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, record(fmt.Sprintf("review %d", i))))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Load(ctx), 20)
}

func TestOpenSelectsFileBackend(t *testing.T) {
	cfg := &config.Config{HistoryBackend: config.HistoryBackendFile, HistoryFile: filepath.Join(t.TempDir(), "h.jsonl")}
	store, err := Open(cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &FileStore{}, store)

	_, err = Open(&config.Config{HistoryBackend: "redis"})
	assert.Error(t, err)
}

func TestOpenDefaultPicksUpLegacyHistory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	legacy := `[{"timestamp": "2025-10-01 09:00:00", "business_name": "Old Shop", "star_rating": 5, "review": "from the old app", "token_usage": {"total_tokens": 64}}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reviews_history.json"), []byte(legacy), 0o644))

	t.Setenv("HISTORY_BACKEND", "")
	t.Setenv("HISTORY_FILE", "")
	store, err := Open(config.Load())
	require.NoError(t, err)
	defer store.Close()

	records := store.Load(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, "from the old app", records[0].Review)
}

func TestRecent(t *testing.T) {
	var records []models.HistoryRecord
	for i := 0; i < 7; i++ {
		records = append(records, record(fmt.Sprintf("r%d", i)))
	}

	tail := Recent(records, 5)
	require.Len(t, tail, 5)
	assert.Equal(t, "r2", tail[0].Review)
	assert.Equal(t, "r6", tail[4].Review)

	assert.Len(t, Recent(records[:3], 5), 3)
	assert.Nil(t, Recent(records, 0))
}

func TestOpeningsUsesTailPrefixes(t *testing.T) {
	var records []models.HistoryRecord
	for i := 0; i < 8; i++ {
		records = append(records, record(fmt.Sprintf("Review number %02d opens with a long enough sentence.", i)))
	}
	records = append(records, record(""))

	openings := Openings(records, RecentOpeningsCount, OpeningPrefixLength)
	require.Len(t, openings, 4)
	for _, o := range openings {
		assert.Len(t, []rune(o), OpeningPrefixLength)
	}
	assert.Equal(t, "Review number 04 opens with a ", openings[0])
	assert.Equal(t, "Review number 07 opens with a ", openings[3])
}

func TestOpeningsCountsRunes(t *testing.T) {
	records := []models.HistoryRecord{record("મારો અનુભવ ખૂબ સારો રહ્યો અને સ્ટાફ ખૂબ જ મદદરૂપ હતો")}
	openings := Openings(records, 5, 5)
	require.Len(t, openings, 1)
	assert.Equal(t, "મારો ", openings[0])
}

func TestIsNearDuplicate(t *testing.T) {
	base := "The coffee at Sunrise Cafe was warm and the staff greeted me by name every single morning."
	var records []models.HistoryRecord
	records = append(records, record(base))
	for i := 0; i < 5; i++ {
		records = append(records, record(fmt.Sprintf("Filler review %d", i)))
	}

	assert.True(t, IsNearDuplicate(records, strings.ToUpper(base[:50])+" but then everything changed."))
	assert.False(t, IsNearDuplicate(records, "A completely different opening line for this review."))

	for i := 0; i < 10; i++ {
		records = append(records, record(fmt.Sprintf("Newer review %d", i)))
	}
	assert.False(t, IsNearDuplicate(records, base), "records outside the window are ignored")
}
