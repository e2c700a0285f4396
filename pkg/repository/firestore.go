package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const historyCollection = "escalation_history"

// Firestore implements Repository with Firestore. Each history row is one
// immutable document keyed by submission ID; Firestore's own write
// serialization satisfies the concurrent-append requirement.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on credential or project problems; an empty collection is fine
	_, err = client.Collection(historyCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{client: client}, nil
}

// AppendRecord adds one row to the log
func (f *Firestore) AppendRecord(ctx context.Context, record *model.HistoryRecord) error {
	if record == nil {
		return goerr.New("record is nil")
	}
	if record.SubmissionID == "" {
		return goerr.New("submission ID is empty")
	}

	// Create, not Set: rows are immutable and a duplicate submission ID is a bug
	_, err := f.client.Collection(historyCollection).Doc(record.SubmissionID.String()).Create(ctx, record)
	if err != nil {
		return goerr.Wrap(model.ErrHistoryUnavailable, "failed to append history row to firestore",
			goerr.V("submissionID", record.SubmissionID))
	}
	return nil
}

// CountFalseEscalations counts flagged rows for an alias within the window.
// The time filter is applied in memory to avoid requiring a composite index.
func (f *Firestore) CountFalseEscalations(ctx context.Context, alias types.Alias, withinDays int) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}

	cutoff := time.Now().AddDate(0, 0, -withinDays)

	query := f.client.Collection(historyCollection).
		Where("Alias", "==", alias.String()).
		Where("FalseEscalation", "==", true)

	count := 0
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(model.ErrHistoryUnavailable, "failed to iterate history rows",
				goerr.V("alias", alias))
		}

		var record model.HistoryRecord
		if err := doc.DataTo(&record); err != nil {
			// Skip malformed rows, do not abort the scan
			ctxlog.From(ctx).Warn("skipping undecodable history row", "doc", doc.Ref.ID, "error", err)
			continue
		}
		if record.Timestamp.After(cutoff) {
			count++
		}
	}
	return count, nil
}

// CountByAlias counts all rows for an alias
func (f *Firestore) CountByAlias(ctx context.Context, alias types.Alias) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}
	return f.countWhere(ctx, "Alias", alias.String())
}

// CountByStation counts all rows for a station
func (f *Firestore) CountByStation(ctx context.Context, station types.StationID) (int, error) {
	if station == "" {
		return 0, goerr.New("station is empty")
	}
	return f.countWhere(ctx, "Station", station.String())
}

func (f *Firestore) countWhere(ctx context.Context, field, value string) (int, error) {
	iter := f.client.Collection(historyCollection).Where(field, "==", value).Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(model.ErrHistoryUnavailable, "failed to count history rows",
				goerr.V(field, value))
		}
		count++
	}
	return count, nil
}

// ListRecords returns rows at or after since, sorted chronologically
func (f *Firestore) ListRecords(ctx context.Context, since time.Time) ([]*model.HistoryRecord, error) {
	iter := f.client.Collection(historyCollection).
		Where("Timestamp", ">=", since).
		Documents(ctx)
	defer iter.Stop()

	var records []*model.HistoryRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(model.ErrHistoryUnavailable, "failed to list history rows")
		}

		var record model.HistoryRecord
		if err := doc.DataTo(&record); err != nil {
			ctxlog.From(ctx).Warn("skipping undecodable history row", "doc", doc.Ref.ID, "error", err)
			continue
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

// Close closes the firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
