package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS escalation_history (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp        DATETIME NOT NULL,
	submission_id    TEXT NOT NULL UNIQUE,
	alias            TEXT NOT NULL,
	station          TEXT NOT NULL,
	claimed_severity TEXT NOT NULL,
	actual_severity  TEXT NOT NULL,
	ticket_severity  TEXT DEFAULT '',
	ticket_link      TEXT DEFAULT '',
	ticket_id        TEXT DEFAULT '',
	need_by          TEXT DEFAULT '',
	description      TEXT DEFAULT '',
	first_approver   TEXT DEFAULT '',
	second_approver  TEXT DEFAULT '',
	false_escalation INTEGER NOT NULL DEFAULT 0,
	mismatch_reason  TEXT DEFAULT '',
	ticket_found     INTEGER NOT NULL DEFAULT 0,
	running_count    INTEGER NOT NULL DEFAULT 0,
	source_tag       TEXT DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_history_alias ON escalation_history(alias);
CREATE INDEX IF NOT EXISTS idx_history_station ON escalation_history(station);
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON escalation_history(timestamp);
`

// SQLite implements Repository with an indexed local database. It serves the
// same append-only contract as the CSV artifact but keeps count queries from
// scanning the whole log.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path
func NewSQLite(path string) (interfaces.Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to initialize sqlite schema", goerr.V("path", path))
	}

	return &SQLite{db: db}, nil
}

// AppendRecord adds one row to the log
func (s *SQLite) AppendRecord(ctx context.Context, record *model.HistoryRecord) error {
	if record == nil {
		return goerr.New("record is nil")
	}
	if record.SubmissionID == "" {
		return goerr.New("submission ID is empty")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO escalation_history (
			timestamp, submission_id, alias, station,
			claimed_severity, actual_severity, ticket_severity,
			ticket_link, ticket_id, need_by, description,
			first_approver, second_approver,
			false_escalation, mismatch_reason, ticket_found,
			running_count, source_tag
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.UTC(), record.SubmissionID.String(), record.Alias.String(), record.Station.String(),
		record.ClaimedSeverity.String(), record.ActualSeverity.String(), record.TicketSeverity.String(),
		record.TicketLink, record.TicketID.String(), record.NeedBy, record.Description,
		record.FirstApprover.String(), record.SecondApprover.String(),
		record.FalseEscalation, record.MismatchReason.String(), record.TicketFound,
		record.RunningCount, record.SourceTag,
	)
	if err != nil {
		return goerr.Wrap(model.ErrHistoryUnavailable, "failed to insert history row",
			goerr.V("submissionID", record.SubmissionID))
	}
	return nil
}

// CountFalseEscalations counts flagged rows for an alias within the window
func (s *SQLite) CountFalseEscalations(ctx context.Context, alias types.Alias, withinDays int) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}

	cutoff := time.Now().AddDate(0, 0, -withinDays).UTC()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM escalation_history
		 WHERE alias = ? AND false_escalation = 1 AND timestamp > ?`,
		alias.String(), cutoff,
	).Scan(&count)
	if err != nil {
		return 0, goerr.Wrap(model.ErrHistoryUnavailable, "failed to count false escalations",
			goerr.V("alias", alias))
	}
	return count, nil
}

// CountByAlias counts all rows for an alias
func (s *SQLite) CountByAlias(ctx context.Context, alias types.Alias) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM escalation_history WHERE alias = ?`,
		alias.String(),
	).Scan(&count)
	if err != nil {
		return 0, goerr.Wrap(model.ErrHistoryUnavailable, "failed to count by alias",
			goerr.V("alias", alias))
	}
	return count, nil
}

// CountByStation counts all rows for a station
func (s *SQLite) CountByStation(ctx context.Context, station types.StationID) (int, error) {
	if station == "" {
		return 0, goerr.New("station is empty")
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM escalation_history WHERE station = ?`,
		station.String(),
	).Scan(&count)
	if err != nil {
		return 0, goerr.Wrap(model.ErrHistoryUnavailable, "failed to count by station",
			goerr.V("station", station))
	}
	return count, nil
}

// ListRecords returns rows at or after since, in insertion order
func (s *SQLite) ListRecords(ctx context.Context, since time.Time) ([]*model.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, submission_id, alias, station,
			claimed_severity, actual_severity, ticket_severity,
			ticket_link, ticket_id, need_by, description,
			first_approver, second_approver,
			false_escalation, mismatch_reason, ticket_found,
			running_count, source_tag
		 FROM escalation_history WHERE timestamp >= ? ORDER BY id`,
		since.UTC(),
	)
	if err != nil {
		return nil, goerr.Wrap(model.ErrHistoryUnavailable, "failed to list history rows")
	}
	defer rows.Close()

	var records []*model.HistoryRecord
	for rows.Next() {
		var r model.HistoryRecord
		var submissionID, alias, station, claimed, actual, ticketSeverity, ticketID, mismatchReason string
		var firstApprover, secondApprover string
		if err := rows.Scan(
			&r.Timestamp, &submissionID, &alias, &station,
			&claimed, &actual, &ticketSeverity,
			&r.TicketLink, &ticketID, &r.NeedBy, &r.Description,
			&firstApprover, &secondApprover,
			&r.FalseEscalation, &mismatchReason, &r.TicketFound,
			&r.RunningCount, &r.SourceTag,
		); err != nil {
			return nil, goerr.Wrap(err, "failed to scan history row")
		}
		r.SubmissionID = types.SubmissionID(submissionID)
		r.Alias = types.Alias(alias)
		r.Station = types.StationID(station)
		r.ClaimedSeverity = types.Severity(claimed)
		r.ActualSeverity = types.Severity(actual)
		r.TicketSeverity = types.Severity(ticketSeverity)
		r.TicketID = types.TicketID(ticketID)
		r.FirstApprover = types.Alias(firstApprover)
		r.SecondApprover = types.Alias(secondApprover)
		r.MismatchReason = types.MismatchReason(mismatchReason)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate history rows")
	}
	return records, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
