// Package history persists generated reviews and derives the
// anti-repetition hints the prompt composer needs from them.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/review-generator/internal/config"
	"github.com/Conceptual-Machines/review-generator/internal/models"
)

const (
	// RecentOpeningsCount is how many records feed the "do not open like this" hints
	RecentOpeningsCount = 5
	// OpeningPrefixLength is the rune length of each opening hint
	OpeningPrefixLength = 30
	// DuplicateWindow is how many records the near-duplicate check looks at
	DuplicateWindow = 10
	// DuplicatePrefixLength is the rune length compared by the near-duplicate check
	DuplicatePrefixLength = 50
)

// Reader loads the ordered history
type Reader interface {
	// Load returns all records in insertion order. It never fails: a missing
	// or unreadable backing store yields an empty (or partial) slice.
	Load(ctx context.Context) []models.HistoryRecord
}

// Store is an append-only collection of history records
type Store interface {
	Reader
	// Append durably adds one record; a later Load in the same process observes it.
	Append(ctx context.Context, record models.HistoryRecord) error
	Close() error
}

// Open builds the store selected by cfg.HistoryBackend
func Open(cfg *config.Config) (Store, error) {
	switch cfg.HistoryBackend {
	case config.HistoryBackendFile, "":
		return NewFileStore(cfg.HistoryFile), nil
	case config.HistoryBackendPostgres:
		store, err := NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}

// Recent returns the last n records, oldest first
func Recent(records []models.HistoryRecord, n int) []models.HistoryRecord {
	if n <= 0 {
		return nil
	}
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// Openings returns the first prefix runes of each non-empty review among the last n records
func Openings(records []models.HistoryRecord, n, prefix int) []string {
	var out []string
	for _, rec := range Recent(records, n) {
		if rec.Review == "" {
			continue
		}
		out = append(out, runePrefix(rec.Review, prefix))
	}
	return out
}

// IsNearDuplicate reports whether text opens the same way, ignoring case,
// as one of the last DuplicateWindow records
func IsNearDuplicate(records []models.HistoryRecord, text string) bool {
	candidate := strings.ToLower(runePrefix(text, DuplicatePrefixLength))
	for _, rec := range Recent(records, DuplicateWindow) {
		if strings.ToLower(runePrefix(rec.Review, DuplicatePrefixLength)) == candidate {
			return true
		}
	}
	return false
}

func runePrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
