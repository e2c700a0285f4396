package interfaces

import (
	"context"

	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// SeveritySource is one external ticket-tracking service that can report a
// ticket's severity. Lookup returns model.ErrTicketNotFound (possibly
// wrapped) when the service does not know the ticket; any other error is a
// transport or parse failure the resolver may skip past.
type SeveritySource interface {
	Name() types.TicketSource
	Lookup(ctx context.Context, id types.TicketID) (*model.TicketInfo, error)
}
