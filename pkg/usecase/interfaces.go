package usecase

import (
	"context"

	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// EscalationUseCase defines the submission pipeline the HTTP controller
// depends on
type EscalationUseCase interface {
	HandleSubmission(ctx context.Context, sub *model.Submission) error
}

// StatsUseCase exposes the display-only history counts
type StatsUseCase interface {
	AliasCount(ctx context.Context, alias types.Alias) int
	StationCount(ctx context.Context, station types.StationID) int
}
