package repository

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// Memory implements Repository with in-memory storage. Appends are
// serialized by the mutex, so concurrent submissions cannot lose rows.
type Memory struct {
	mu      sync.RWMutex
	records []*model.HistoryRecord
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{}
}

// AppendRecord adds one row to the log
func (m *Memory) AppendRecord(ctx context.Context, record *model.HistoryRecord) error {
	if record == nil {
		return goerr.New("record is nil")
	}
	if record.SubmissionID == "" {
		return goerr.New("submission ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Store a copy so callers cannot mutate appended rows
	recordCopy := *record
	m.records = append(m.records, &recordCopy)
	return nil
}

// CountFalseEscalations counts flagged rows for an alias within the window
func (m *Memory) CountFalseEscalations(ctx context.Context, alias types.Alias, withinDays int) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}

	cutoff := time.Now().AddDate(0, 0, -withinDays)

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.records {
		if r.Alias == alias && r.FalseEscalation && r.Timestamp.After(cutoff) {
			count++
		}
	}
	return count, nil
}

// CountByAlias counts all rows for an alias
func (m *Memory) CountByAlias(ctx context.Context, alias types.Alias) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.records {
		if r.Alias == alias {
			count++
		}
	}
	return count, nil
}

// CountByStation counts all rows for a station
func (m *Memory) CountByStation(ctx context.Context, station types.StationID) (int, error) {
	if station == "" {
		return 0, goerr.New("station is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.records {
		if r.Station == station {
			count++
		}
	}
	return count, nil
}

// ListRecords returns rows at or after since, in insertion order
func (m *Memory) ListRecords(ctx context.Context, since time.Time) ([]*model.HistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*model.HistoryRecord
	for _, r := range m.records {
		if !r.Timestamp.Before(since) {
			recordCopy := *r
			records = append(records, &recordCopy)
		}
	}
	return records, nil
}

// Close closes the repository
func (m *Memory) Close() error {
	return nil
}
