package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

func TestVerdictFlag(t *testing.T) {
	t.Run("first flag sets reason and actual", func(t *testing.T) {
		v := &model.Verdict{
			Claimed: types.SeveritySev1,
			Actual:  types.SeveritySev1,
		}
		v.Flag(types.MismatchMissingTicket, types.SeverityStandard)

		gt.True(t, v.IsFalseEscalation)
		gt.Equal(t, types.MismatchMissingTicket, v.Reason)
		gt.Equal(t, types.SeverityStandard, v.Actual)
		gt.NotEqual(t, "", v.Rationale)
	})

	t.Run("second flag is a no-op", func(t *testing.T) {
		v := &model.Verdict{
			Claimed: types.SeveritySev2,
			Actual:  types.SeveritySev2,
		}
		v.Flag(types.MismatchMissingTicket, types.SeverityStandard)
		v.Flag(types.MismatchNonUrgentLanguage, types.SeveritySev4)

		gt.Equal(t, types.MismatchMissingTicket, v.Reason)
		gt.Equal(t, types.SeverityStandard, v.Actual)
	})

	t.Run("unflagged verdict keeps claimed severity", func(t *testing.T) {
		v := &model.Verdict{
			Claimed: types.SeveritySev3,
			Actual:  types.SeveritySev3,
		}
		gt.False(t, v.IsFalseEscalation)
		gt.Equal(t, types.MismatchNone, v.Reason)
		gt.Equal(t, types.SeveritySev3, v.Actual)
	})
}

func TestNewHistoryRecord(t *testing.T) {
	sub := validSubmission()
	sub.ID = "sub-1"
	verdict := &model.Verdict{
		Claimed: sub.Severity,
		Actual:  sub.Severity,
	}
	verdict.Flag(types.MismatchNonUrgentLanguage, types.SeverityStandard)

	record := model.NewHistoryRecord(sub, verdict)
	gt.Equal(t, sub.ID, record.SubmissionID)
	gt.Equal(t, sub.Submitter, record.Alias)
	gt.Equal(t, sub.Station, record.Station)
	gt.Equal(t, verdict.Claimed, record.ClaimedSeverity)
	gt.Equal(t, types.SeverityStandard, record.ActualSeverity)
	gt.True(t, record.FalseEscalation)
	gt.Equal(t, types.MismatchNonUrgentLanguage, record.MismatchReason)
	gt.Equal(t, model.SourceTag, record.SourceTag)
	gt.Equal(t, 0, record.RunningCount)
}
