package model

import (
	"time"

	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// SourceTag identifies rows written by this service in the shared log
const SourceTag = "cuon-escalation-form"

// HistoryRecord is one append-only row of the escalation log. Rows are never
// edited or deleted; insertion order is chronological.
type HistoryRecord struct {
	Timestamp       time.Time            `firestore:"Timestamp"`
	SubmissionID    types.SubmissionID   `firestore:"SubmissionID"`
	Alias           types.Alias          `firestore:"Alias"`
	Station         types.StationID      `firestore:"Station"`
	ClaimedSeverity types.Severity       `firestore:"ClaimedSeverity"`
	ActualSeverity  types.Severity       `firestore:"ActualSeverity"`
	TicketSeverity  types.Severity       `firestore:"TicketSeverity"`
	TicketLink      string               `firestore:"TicketLink"`
	TicketID        types.TicketID       `firestore:"TicketID"`
	NeedBy          string               `firestore:"NeedBy"`
	Description     string               `firestore:"Description"`
	FirstApprover   types.Alias          `firestore:"FirstApprover"`
	SecondApprover  types.Alias          `firestore:"SecondApprover"`
	FalseEscalation bool                 `firestore:"FalseEscalation"`
	MismatchReason  types.MismatchReason `firestore:"MismatchReason"`
	TicketFound     bool                 `firestore:"TicketFound"`
	RunningCount    int                  `firestore:"RunningCount"`
	SourceTag       string               `firestore:"SourceTag"`
}

// NewHistoryRecord builds the log row for one validated submission.
// RunningCount is filled in by the history use case once the prior window
// count is known.
func NewHistoryRecord(sub *Submission, verdict *Verdict) *HistoryRecord {
	return &HistoryRecord{
		Timestamp:       sub.SubmittedAt,
		SubmissionID:    sub.ID,
		Alias:           sub.Submitter,
		Station:         sub.Station,
		ClaimedSeverity: verdict.Claimed,
		ActualSeverity:  verdict.Actual,
		TicketSeverity:  verdict.TicketSeverity,
		TicketLink:      sub.TicketLink,
		TicketID:        verdict.TicketID,
		NeedBy:          sub.NeedBy,
		Description:     sub.Description,
		FirstApprover:   sub.FirstApprover,
		SecondApprover:  sub.SecondApprover,
		FalseEscalation: verdict.IsFalseEscalation,
		MismatchReason:  verdict.Reason,
		TicketFound:     verdict.TicketFound,
		SourceTag:       SourceTag,
	}
}

// RepeatInfo summarizes a submitter's false escalations within the trailing
// repeat-offender window. Count includes the current submission when it was
// itself flagged; IsRepeat reflects only prior offenses.
type RepeatInfo struct {
	Count    int
	IsRepeat bool
}
