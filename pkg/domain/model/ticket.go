package model

import (
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// TicketInfo is what a single severity source reports for one ticket
type TicketInfo struct {
	Severity types.Severity
	Status   string
}

// TicketLookup is the outcome of resolving a ticket link against the
// configured severity sources. Found is false when no source recognized the
// ticket; ErrorDetail retains the last source error for diagnostics.
type TicketLookup struct {
	ID          types.TicketID
	Severity    types.Severity
	Status      string
	Found       bool
	Source      types.TicketSource
	ErrorDetail string
}

// NotFound returns a lookup result for a ticket no source could resolve
func NotFound(id types.TicketID, errorDetail string) *TicketLookup {
	return &TicketLookup{
		ID:          id,
		Severity:    types.SeverityUnknown,
		Found:       false,
		Source:      types.TicketSourceNone,
		ErrorDetail: errorDetail,
	}
}
