package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// Repository defines the append-only escalation history log. Rows are never
// edited or deleted; implementations must serialize concurrent appends so a
// writer cannot lose rows appended by another.
type Repository interface {
	// AppendRecord adds one row to the log
	AppendRecord(ctx context.Context, record *model.HistoryRecord) error

	// CountFalseEscalations counts flagged rows for an alias within the
	// trailing window measured from now. Malformed rows are skipped, not
	// treated as errors.
	CountFalseEscalations(ctx context.Context, alias types.Alias, withinDays int) (int, error)

	// CountByAlias counts all historical rows for an alias (display only)
	CountByAlias(ctx context.Context, alias types.Alias) (int, error)

	// CountByStation counts all historical rows for a station (display only)
	CountByStation(ctx context.Context, station types.StationID) (int, error)

	// ListRecords returns rows at or after since, in insertion order
	ListRecords(ctx context.Context, since time.Time) ([]*model.HistoryRecord, error)

	// Close closes the repository connection
	Close() error
}
