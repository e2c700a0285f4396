package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/secmon-lab/cuon/pkg/service/urgency"
	"github.com/secmon-lab/cuon/pkg/usecase"
)

type fakeResolver struct {
	lookup *model.TicketLookup
}

func (f *fakeResolver) Resolve(ctx context.Context, id types.TicketID) *model.TicketLookup {
	if f.lookup == nil {
		return model.NotFound(id, "")
	}
	l := *f.lookup
	l.ID = id
	return &l
}

func foundTicket(severity types.Severity) *model.TicketLookup {
	return &model.TicketLookup{
		Severity: severity,
		Found:    true,
		Source:   types.TicketSourceSim,
	}
}

func testSubmission(severity types.Severity) *model.Submission {
	return &model.Submission{
		ID:             "sub-1",
		Severity:       severity,
		Station:        "JFK8",
		OrderLink:      "https://orders.example.com/123",
		TicketLink:     model.TicketLinkNotProvided,
		NeedBy:         "2026-09-01",
		Description:    "Conveyor motor failed",
		Submitter:      "jdoe",
		FirstApprover:  "asmith",
		SecondApprover: "bjones",
	}
}

func newTestValidator(lookup *model.TicketLookup, rules model.RuleToggles, opts ...usecase.ValidatorOption) *usecase.Validator {
	cfg := model.DefaultRulesConfig()
	cfg.Rules = rules
	scorer := urgency.NewScorer(cfg.Lexicon)
	return usecase.NewValidator(&fakeResolver{lookup: lookup}, scorer, cfg, opts...)
}

func TestValidatorAllRulesDisabled(t *testing.T) {
	ctx := context.Background()

	// Default configuration flags nothing, even a critical claim with no
	// ticket and non-urgent language
	sub := testSubmission(types.SeveritySev1)
	sub.Description = "Just a question, no rush"

	v := newTestValidator(nil, model.RuleToggles{})
	verdict := v.Validate(ctx, sub)

	gt.False(t, verdict.IsFalseEscalation)
	gt.Equal(t, types.SeveritySev1, verdict.Actual)
	gt.Equal(t, types.MismatchNone, verdict.Reason)
	gt.Equal(t, 2, verdict.NonUrgentScore)
}

func TestValidatorMissingTicketRule(t *testing.T) {
	ctx := context.Background()
	rules := model.RuleToggles{MissingTicket: true}

	t.Run("critical claim without ticket is flagged", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev1)
		v := newTestValidator(nil, rules)

		verdict := v.Validate(ctx, sub)
		gt.True(t, verdict.IsFalseEscalation)
		gt.Equal(t, types.MismatchMissingTicket, verdict.Reason)
		gt.Equal(t, types.SeverityStandard, verdict.Actual)
		gt.Equal(t, types.SeveritySev1, verdict.Claimed)
	})

	t.Run("critical claim with a found ticket passes", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev1)
		sub.TicketLink = "https://sim.example.com/issues/P123"
		v := newTestValidator(foundTicket(types.SeveritySev1), rules)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
		gt.True(t, verdict.TicketFound)
	})

	t.Run("non-critical claim is never checked", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev3)
		v := newTestValidator(nil, rules)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
	})
}

func TestValidatorTicketMismatchRule(t *testing.T) {
	ctx := context.Background()
	rules := model.RuleToggles{TicketMismatch: true}

	t.Run("weak ticket demotes the claim to the ticket severity", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev2)
		sub.TicketLink = "https://remedy.example.com/tickets/INC1"
		v := newTestValidator(foundTicket(types.SeveritySev4), rules)

		verdict := v.Validate(ctx, sub)
		gt.True(t, verdict.IsFalseEscalation)
		gt.Equal(t, types.MismatchTicketSeverity, verdict.Reason)
		gt.Equal(t, types.SeveritySev4, verdict.Actual)
		gt.Equal(t, types.SeveritySev4, verdict.TicketSeverity)
	})

	t.Run("ticket at SEV2.5 still supports a critical claim", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev2)
		sub.TicketLink = "https://sim.example.com/issues/P123"
		v := newTestValidator(foundTicket(types.SeveritySev25), rules)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
	})

	t.Run("missing ticket does not trigger the mismatch rule", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev1)
		v := newTestValidator(nil, rules)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
	})
}

func TestValidatorTextHeuristicRule(t *testing.T) {
	ctx := context.Background()
	rules := model.RuleToggles{TextHeuristic: true}

	t.Run("non-urgent language dominates", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev2)
		sub.Description = "Just a question, no rush on this"
		v := newTestValidator(nil, rules)

		verdict := v.Validate(ctx, sub)
		gt.True(t, verdict.IsFalseEscalation)
		gt.Equal(t, types.MismatchNonUrgentLanguage, verdict.Reason)
		gt.Equal(t, types.SeverityStandard, verdict.Actual)
		gt.Equal(t, 0, verdict.UrgentScore)
		gt.Equal(t, 2, verdict.NonUrgentScore)
	})

	t.Run("a tie does not flag", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev2)
		sub.Description = "Station blocked, but mostly a question"
		v := newTestValidator(nil, rules)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
		gt.Equal(t, verdict.UrgentScore, verdict.NonUrgentScore)
	})
}

func TestValidatorNeedByDistanceRule(t *testing.T) {
	ctx := context.Background()
	rules := model.RuleToggles{NeedByDistance: true}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	clock := usecase.WithClock(func() time.Time { return now })

	t.Run("distant need-by contradicts a critical claim", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev1)
		sub.NeedBy = "2026-09-15"
		v := newTestValidator(nil, rules, clock)

		verdict := v.Validate(ctx, sub)
		gt.True(t, verdict.IsFalseEscalation)
		gt.Equal(t, types.MismatchNeedByDistant, verdict.Reason)
	})

	t.Run("near-term need-by passes", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev1)
		sub.NeedBy = "2026-09-01"
		v := newTestValidator(nil, rules, clock)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
	})

	t.Run("unparseable need-by skips the rule", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev1)
		sub.NeedBy = "next sprint"
		v := newTestValidator(nil, rules, clock)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
	})

	t.Run("non-critical claim is never checked", func(t *testing.T) {
		sub := testSubmission(types.SeveritySev4)
		sub.NeedBy = "2027-01-01"
		v := newTestValidator(nil, rules, clock)

		verdict := v.Validate(ctx, sub)
		gt.False(t, verdict.IsFalseEscalation)
	})
}

func TestValidatorFirstRuleWins(t *testing.T) {
	ctx := context.Background()

	// Multiple rules would fire here; only the first in evaluation order
	// leaves its reason on the verdict
	sub := testSubmission(types.SeveritySev1)
	sub.Description = "Just a question, no rush"
	sub.NeedBy = "2026-12-31"

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(nil, model.RuleToggles{
		MissingTicket:  true,
		TicketMismatch: true,
		TextHeuristic:  true,
		NeedByDistance: true,
	}, usecase.WithClock(func() time.Time { return now }))

	verdict := v.Validate(ctx, sub)
	gt.True(t, verdict.IsFalseEscalation)
	gt.Equal(t, types.MismatchMissingTicket, verdict.Reason)
	gt.Equal(t, types.SeverityStandard, verdict.Actual)
}

func TestValidatorDeterminism(t *testing.T) {
	ctx := context.Background()
	sub := testSubmission(types.SeveritySev2)
	sub.TicketLink = "https://remedy.example.com/tickets/INC1"
	sub.Description = "Just a question, not urgent, fyi"

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(foundTicket(types.SeveritySev4), model.RuleToggles{
		TicketMismatch: true,
		TextHeuristic:  true,
	}, usecase.WithClock(func() time.Time { return now }))

	first := v.Validate(ctx, sub)
	for i := 0; i < 5; i++ {
		gt.Equal(t, first, v.Validate(ctx, sub))
	}
}
