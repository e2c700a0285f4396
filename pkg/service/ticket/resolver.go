package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// DefaultLookupTimeout bounds one call to one severity source
const DefaultLookupTimeout = 5 * time.Second

// Resolver queries severity sources in priority order and returns the first
// usable answer. Resolution never fails: an unreachable or unknowing source
// means "try the next one", and exhausting all sources yields found=false
// with the last error kept for diagnostics.
type Resolver struct {
	sources []interfaces.SeveritySource
	timeout time.Duration
}

// NewResolver creates a resolver over the given sources. Order is priority
// order; the first source wins ties. A non-positive timeout falls back to
// DefaultLookupTimeout.
func NewResolver(timeout time.Duration, sources ...interfaces.SeveritySource) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Resolver{
		sources: sources,
		timeout: timeout,
	}
}

// Resolve looks up the ticket across all sources. An empty ID returns
// found=false immediately without touching the network.
func (r *Resolver) Resolve(ctx context.Context, id types.TicketID) *model.TicketLookup {
	if id == "" {
		return model.NotFound("", "")
	}

	logger := ctxlog.From(ctx)
	lastErr := ""

	for _, src := range r.sources {
		info, err := r.lookupOne(ctx, src, id)
		if err != nil {
			if !errors.Is(err, model.ErrTicketNotFound) {
				lastErr = err.Error()
			}
			logger.Debug("severity source lookup failed, trying next",
				"source", src.Name(),
				"ticketID", id,
				"error", err,
			)
			continue
		}

		return &model.TicketLookup{
			ID:       id,
			Severity: info.Severity,
			Status:   info.Status,
			Found:    true,
			Source:   src.Name(),
		}
	}

	return model.NotFound(id, lastErr)
}

func (r *Resolver) lookupOne(ctx context.Context, src interfaces.SeveritySource, id types.TicketID) (*model.TicketInfo, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return src.Lookup(lookupCtx, id)
}
