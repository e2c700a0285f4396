package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// TicketLinkNotProvided is the sentinel the form sends when the optional
// ticket link field is left empty.
const TicketLinkNotProvided = "Not provided"

const needByLayout = "2006-01-02"

// Submission represents one escalation form post. It is created once per
// request and never mutated afterwards.
type Submission struct {
	ID             types.SubmissionID `json:"id" firestore:"ID"`
	Severity       types.Severity     `json:"severity" firestore:"Severity"`
	Station        types.StationID    `json:"station" firestore:"Station"`
	OrderLink      string             `json:"orderLink" firestore:"OrderLink"`
	TicketLink     string             `json:"ticketLink" firestore:"TicketLink"`
	NeedBy         string             `json:"needBy" firestore:"NeedBy"`
	Description    string             `json:"description" firestore:"Description"`
	Submitter      types.Alias        `json:"submitter" firestore:"Submitter"`
	FirstApprover  types.Alias        `json:"firstApprover" firestore:"FirstApprover"`
	SecondApprover types.Alias        `json:"secondApprover" firestore:"SecondApprover"`
	SubmittedAt    time.Time          `json:"submittedAt" firestore:"SubmittedAt"`
}

// Finalize assigns the server-side fields of a decoded form submission
func (s *Submission) Finalize(now time.Time) {
	if s.ID == "" {
		s.ID = types.NewSubmissionID()
	}
	s.SubmittedAt = now
}

// Validate checks that every required field is present. A failed validation
// is the only submission error surfaced to the caller.
func (s *Submission) Validate() error {
	if s.Severity == types.SeverityUnknown {
		return goerr.Wrap(ErrMalformedSubmission, "severity is required")
	}
	if !s.Severity.IsValid() {
		return goerr.Wrap(ErrMalformedSubmission, "unknown severity",
			goerr.V("severity", s.Severity))
	}
	if s.Station == "" {
		return goerr.Wrap(ErrMalformedSubmission, "station is required")
	}
	if s.OrderLink == "" {
		return goerr.Wrap(ErrMalformedSubmission, "order link is required")
	}
	if s.NeedBy == "" {
		return goerr.Wrap(ErrMalformedSubmission, "need-by date is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return goerr.Wrap(ErrMalformedSubmission, "description is required")
	}
	if s.Submitter == "" {
		return goerr.Wrap(ErrMalformedSubmission, "submitter is required")
	}
	if s.FirstApprover == "" || s.SecondApprover == "" {
		return goerr.Wrap(ErrMalformedSubmission, "both approvers are required")
	}
	return nil
}

// NeedByDate parses the need-by form value. The second return value is false
// when the field does not carry a parseable date; callers skip date-based
// checks in that case rather than failing the submission.
func (s *Submission) NeedByDate() (time.Time, bool) {
	t, err := time.Parse(needByLayout, strings.TrimSpace(s.NeedBy))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
