package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// FileStore keeps the signal log in a single JSON file. Each append reads
// the whole log, pushes the new record, and rewrites the file; partial-write
// atomicity is not guaranteed and the store assumes a single writer.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewFileStore constructs a file-backed signal log at path. The parent
// directory is created on first append.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "signal_log").Logger(),
	}
}

// Append durably adds one record at the end of the log.
func (f *FileStore) Append(ctx context.Context, rec SignalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return err
	}
	records = append(records, rec)

	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create signal log dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode signal log: %w", err)
	}
	if err := os.WriteFile(f.path, payload, 0o644); err != nil {
		return fmt.Errorf("write signal log: %w", err)
	}

	f.logger.Debug().Str("symbol", rec.Symbol).Int("records", len(records)).Msg("signal appended")
	return nil
}

// Recent returns the last n records in insertion order.
func (f *FileStore) Recent(ctx context.Context, n int) ([]SignalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}

// Count returns the number of recorded signals.
func (f *FileStore) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (f *FileStore) readAll() ([]SignalRecord, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read signal log: %w", err)
	}

	var records []SignalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode signal log: %w", err)
	}
	return records, nil
}

var _ SignalStore = (*FileStore)(nil)
