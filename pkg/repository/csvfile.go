package repository

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// csvHeader is the fixed column order of the escalation log artifact.
// Existing deployments read this file directly, so the order is a contract.
var csvHeader = []string{
	"timestamp",
	"submission_id",
	"alias",
	"claimed_severity",
	"actual_severity",
	"ticket_severity",
	"station",
	"ticket_link",
	"ticket_id",
	"need_by",
	"description",
	"first_approver",
	"second_approver",
	"false_escalation",
	"mismatch_reason",
	"ticket_found",
	"running_count",
	"source_tag",
}

// CSVFile implements Repository over a single append-only CSV artifact.
// The mutex serializes writers within this process; the file is opened with
// O_APPEND so rows are only ever added. Deployments that need multiple
// writer processes should use the SQLite or Firestore backend instead.
type CSVFile struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewCSVFile opens (or creates) the log artifact and writes the header row
// once for a fresh file.
func NewCSVFile(path string) (interfaces.Repository, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open escalation log", goerr.V("path", path))
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, goerr.Wrap(err, "failed to stat escalation log", goerr.V("path", path))
	}

	repo := &CSVFile{
		path: path,
		file: file,
	}

	if info.Size() == 0 {
		w := csv.NewWriter(file)
		if err := w.Write(csvHeader); err != nil {
			_ = file.Close()
			return nil, goerr.Wrap(err, "failed to write log header")
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = file.Close()
			return nil, goerr.Wrap(err, "failed to flush log header")
		}
	}

	return repo, nil
}

// AppendRecord adds one row to the log
func (c *CSVFile) AppendRecord(ctx context.Context, record *model.HistoryRecord) error {
	if record == nil {
		return goerr.New("record is nil")
	}
	if record.SubmissionID == "" {
		return goerr.New("submission ID is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	w := csv.NewWriter(c.file)
	if err := w.Write(recordToRow(record)); err != nil {
		return goerr.Wrap(model.ErrHistoryUnavailable, "failed to append log row",
			goerr.V("submissionID", record.SubmissionID))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(model.ErrHistoryUnavailable, "failed to flush log row",
			goerr.V("submissionID", record.SubmissionID))
	}
	return nil
}

// CountFalseEscalations counts flagged rows for an alias within the window
func (c *CSVFile) CountFalseEscalations(ctx context.Context, alias types.Alias, withinDays int) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}

	cutoff := time.Now().AddDate(0, 0, -withinDays)
	count := 0
	err := c.scan(ctx, func(r *model.HistoryRecord) {
		if r.Alias == alias && r.FalseEscalation && r.Timestamp.After(cutoff) {
			count++
		}
	})
	return count, err
}

// CountByAlias counts all rows for an alias
func (c *CSVFile) CountByAlias(ctx context.Context, alias types.Alias) (int, error) {
	if alias == "" {
		return 0, goerr.New("alias is empty")
	}

	count := 0
	err := c.scan(ctx, func(r *model.HistoryRecord) {
		if r.Alias == alias {
			count++
		}
	})
	return count, err
}

// CountByStation counts all rows for a station
func (c *CSVFile) CountByStation(ctx context.Context, station types.StationID) (int, error) {
	if station == "" {
		return 0, goerr.New("station is empty")
	}

	count := 0
	err := c.scan(ctx, func(r *model.HistoryRecord) {
		if r.Station == station {
			count++
		}
	})
	return count, err
}

// ListRecords returns rows at or after since, in insertion order
func (c *CSVFile) ListRecords(ctx context.Context, since time.Time) ([]*model.HistoryRecord, error) {
	var records []*model.HistoryRecord
	err := c.scan(ctx, func(r *model.HistoryRecord) {
		if !r.Timestamp.Before(since) {
			records = append(records, r)
		}
	})
	return records, err
}

// Close closes the log file
func (c *CSVFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Close()
}

// scan reads the whole artifact, invoking fn for each parseable row.
// Malformed rows are logged and skipped so one bad row cannot poison every
// count query.
func (c *CSVFile) scan(ctx context.Context, fn func(r *model.HistoryRecord)) error {
	f, err := os.Open(c.path)
	if err != nil {
		return goerr.Wrap(model.ErrHistoryUnavailable, "failed to open escalation log for read",
			goerr.V("path", c.path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	logger := ctxlog.From(ctx)
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			logger.Warn("skipping unreadable log row", "line", line, "error", err)
			continue
		}
		if line == 1 && len(row) > 0 && row[0] == csvHeader[0] {
			continue
		}

		record, ok := rowToRecord(row)
		if !ok {
			logger.Warn("skipping malformed log row", "line", line, "columns", len(row))
			continue
		}
		fn(record)
	}
}

// sanitizeField strips the characters that would break the row structure of
// downstream consumers that split on commas and newlines.
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, ",", ";")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func recordToRow(r *model.HistoryRecord) []string {
	return []string{
		r.Timestamp.Format(time.RFC3339),
		r.SubmissionID.String(),
		r.Alias.String(),
		r.ClaimedSeverity.String(),
		r.ActualSeverity.String(),
		r.TicketSeverity.String(),
		r.Station.String(),
		r.TicketLink,
		r.TicketID.String(),
		r.NeedBy,
		sanitizeField(r.Description),
		r.FirstApprover.String(),
		r.SecondApprover.String(),
		strconv.FormatBool(r.FalseEscalation),
		r.MismatchReason.String(),
		strconv.FormatBool(r.TicketFound),
		strconv.Itoa(r.RunningCount),
		r.SourceTag,
	}
}

func rowToRecord(row []string) (*model.HistoryRecord, bool) {
	if len(row) != len(csvHeader) {
		return nil, false
	}

	ts, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return nil, false
	}
	falseEscalation, err := strconv.ParseBool(row[13])
	if err != nil {
		return nil, false
	}
	ticketFound, err := strconv.ParseBool(row[15])
	if err != nil {
		return nil, false
	}
	runningCount, err := strconv.Atoi(row[16])
	if err != nil {
		return nil, false
	}

	return &model.HistoryRecord{
		Timestamp:       ts,
		SubmissionID:    types.SubmissionID(row[1]),
		Alias:           types.Alias(row[2]),
		ClaimedSeverity: types.Severity(row[3]),
		ActualSeverity:  types.Severity(row[4]),
		TicketSeverity:  types.Severity(row[5]),
		Station:         types.StationID(row[6]),
		TicketLink:      row[7],
		TicketID:        types.TicketID(row[8]),
		NeedBy:          row[9],
		Description:     row[10],
		FirstApprover:   types.Alias(row[11]),
		SecondApprover:  types.Alias(row[12]),
		FalseEscalation: falseEscalation,
		MismatchReason:  types.MismatchReason(row[14]),
		TicketFound:     ticketFound,
		RunningCount:    runningCount,
		SourceTag:       row[17],
	}, true
}
