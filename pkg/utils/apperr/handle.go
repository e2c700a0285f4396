package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an error that is deliberately not propagated. Best-effort
// paths (Slack delivery, history appends, ticket lookups) report through
// here so operators still see the failure.
func Handle(ctx context.Context, msg string, err error) {
	ctxlog.From(ctx).Error(msg, "error", err)
}
