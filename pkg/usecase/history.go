package usecase

import (
	"context"

	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/secmon-lab/cuon/pkg/utils/apperr"
)

// History records validated submissions and derives repeat-offense counts.
// Every operation is best-effort: a store failure is logged for operators
// and the caller proceeds with zero counts, because tracking must never
// block the escalation itself.
type History struct {
	repo       interfaces.Repository
	windowDays int
}

// NewHistory creates a History use case with the given repeat window
func NewHistory(repo interfaces.Repository, windowDays int) *History {
	if windowDays <= 0 {
		windowDays = model.DefaultRepeatWindowDays
	}
	return &History{
		repo:       repo,
		windowDays: windowDays,
	}
}

// RecordAndCount counts the submitter's prior false escalations inside the
// window, appends this submission's row, and returns the repeat summary.
// IsRepeat reflects only offenses before this submission; Count includes the
// current one when it was flagged.
func (h *History) RecordAndCount(ctx context.Context, sub *model.Submission, verdict *model.Verdict) *model.RepeatInfo {
	prior, err := h.repo.CountFalseEscalations(ctx, sub.Submitter, h.windowDays)
	if err != nil {
		apperr.Handle(ctx, "failed to count prior false escalations", err)
		prior = 0
	}

	total := prior
	if verdict.IsFalseEscalation {
		total++
	}

	record := model.NewHistoryRecord(sub, verdict)
	record.RunningCount = total
	if err := h.repo.AppendRecord(ctx, record); err != nil {
		apperr.Handle(ctx, "failed to append history record", err)
	}

	return &model.RepeatInfo{
		Count:    total,
		IsRepeat: prior > 0,
	}
}

// AliasCount returns the total submission count for an alias, zero on store
// failure. Display only.
func (h *History) AliasCount(ctx context.Context, alias types.Alias) int {
	count, err := h.repo.CountByAlias(ctx, alias)
	if err != nil {
		apperr.Handle(ctx, "failed to count submissions by alias", err)
		return 0
	}
	return count
}

// StationCount returns the total submission count for a station, zero on
// store failure. Display only.
func (h *History) StationCount(ctx context.Context, station types.StationID) int {
	count, err := h.repo.CountByStation(ctx, station)
	if err != nil {
		apperr.Handle(ctx, "failed to count submissions by station", err)
		return 0
	}
	return count
}
