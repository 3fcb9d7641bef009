package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/models"
)

const maxLineBytes = 1 << 20

// FileStore keeps history as a JSON Lines log: one record per line, each
// appended with a single write. Files holding a legacy JSON array are read
// as-is and converted to lines before the first append.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Reader
func (s *FileStore) Load(_ context.Context) []models.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append implements Store
func (s *FileStore) Append(_ context.Context, record models.HistoryRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode history record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.convertLegacy(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append history record: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync history file: %w", err)
	}
	return f.Close()
}

// Close implements Store
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() []models.HistoryRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to read history file", logger.Fields{"path": s.path, "error": err.Error()})
		}
		return []models.HistoryRecord{}
	}

	if isLegacyArray(data) {
		var records []models.HistoryRecord
		if err := json.Unmarshal(data, &records); err != nil {
			logger.Warn("Corrupt legacy history file", logger.Fields{"path": s.path, "error": err.Error()})
			return []models.HistoryRecord{}
		}
		return records
	}

	records := []models.HistoryRecord{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec models.HistoryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("Skipping corrupt history line", logger.Fields{"path": s.path, "line": lineNo})
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Stopped reading history file", logger.Fields{"path": s.path, "error": err.Error()})
	}
	return records
}

// convertLegacy rewrites a JSON array file as JSON Lines via an atomic rename
func (s *FileStore) convertLegacy() error {
	data, err := os.ReadFile(s.path)
	if err != nil || !isLegacyArray(data) {
		return nil
	}

	var records []models.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("history file %s is not valid JSON: %w", s.path, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode history record: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.jsonl")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}

	logger.Info("Converted legacy history file", logger.Fields{"path": s.path, "records": len(records)})
	return nil
}

func isLegacyArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
