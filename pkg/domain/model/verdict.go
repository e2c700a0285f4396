package model

import (
	"fmt"

	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// Verdict is the result of validating a claimed severity against external
// evidence. IsFalseEscalation is true only when Reason is set.
type Verdict struct {
	Claimed           types.Severity
	Actual            types.Severity
	TicketSeverity    types.Severity
	TicketID          types.TicketID
	TicketSource      types.TicketSource
	TicketFound       bool
	IsFalseEscalation bool
	Reason            types.MismatchReason
	UrgentScore       int
	NonUrgentScore    int
	Rationale         string
}

// Rationale strings shown to submitters in guidance messages
func rationaleFor(reason types.MismatchReason, v *Verdict) string {
	switch reason {
	case types.MismatchMissingTicket:
		return fmt.Sprintf("%s was claimed but no ticket could be found to substantiate it", v.Claimed)
	case types.MismatchTicketSeverity:
		return fmt.Sprintf("the linked ticket reports %s, which does not support a %s claim", v.TicketSeverity, v.Claimed)
	case types.MismatchNonUrgentLanguage:
		return fmt.Sprintf("the description reads as non-urgent (urgent cues: %d, non-urgent cues: %d)", v.UrgentScore, v.NonUrgentScore)
	case types.MismatchNeedByDistant:
		return fmt.Sprintf("%s was claimed but the need-by date is more than 2 days out", v.Claimed)
	default:
		return ""
	}
}

// Flag marks the verdict as a false escalation with the given reason and
// corrected severity. It is a no-op if a reason was already recorded, so the
// first firing rule wins.
func (v *Verdict) Flag(reason types.MismatchReason, actual types.Severity) {
	if v.IsFalseEscalation {
		return
	}
	v.IsFalseEscalation = true
	v.Reason = reason
	v.Actual = actual
	v.Rationale = rationaleFor(reason, v)
}
