package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/secmon-lab/cuon/pkg/service/ticket"
	"github.com/secmon-lab/cuon/pkg/service/urgency"
)

// needByGrace is how far out a need-by date may be before a critical claim
// is considered distant
const needByGrace = 48 * time.Hour

// TicketResolver resolves a ticket ID into severity evidence
type TicketResolver interface {
	Resolve(ctx context.Context, id types.TicketID) *model.TicketLookup
}

// Validator decides whether a claimed severity is justified. Given the same
// submission, lookup result and clock, the verdict is deterministic; rule
// toggles are fixed at construction.
type Validator struct {
	resolver TicketResolver
	scorer   *urgency.Scorer
	rules    model.RuleToggles
	now      func() time.Time
}

// ValidatorOption is a functional option for configuring Validator
type ValidatorOption func(*Validator)

// WithClock overrides the validator's clock, used by the need-by rule
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a Validator with the given rule configuration
func NewValidator(resolver TicketResolver, scorer *urgency.Scorer, cfg *model.RulesConfig, opts ...ValidatorOption) *Validator {
	v := &Validator{
		resolver: resolver,
		scorer:   scorer,
		rules:    cfg.Rules,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the classification pipeline for one submission. Rules are
// evaluated in a fixed order and the first match wins, so a verdict carries
// at most one mismatch reason. A failed ticket lookup degrades to
// found=false; validation itself never fails.
func (v *Validator) Validate(ctx context.Context, sub *model.Submission) *model.Verdict {
	id, _ := ticket.ExtractID(sub.TicketLink)
	lookup := v.resolver.Resolve(ctx, id)
	urgent, nonUrgent := v.scorer.Score(sub.Description)

	verdict := &model.Verdict{
		Claimed:        sub.Severity,
		Actual:         sub.Severity,
		TicketSeverity: lookup.Severity,
		TicketID:       lookup.ID,
		TicketSource:   lookup.Source,
		TicketFound:    lookup.Found,
		UrgentScore:    urgent,
		NonUrgentScore: nonUrgent,
	}

	if v.rules.MissingTicket && sub.Severity.IsCritical() && !lookup.Found {
		verdict.Flag(types.MismatchMissingTicket, types.SeverityStandard)
	}
	if v.rules.TicketMismatch && lookup.Found && sub.Severity.IsCritical() && !supportsCriticalClaim(lookup.Severity) {
		verdict.Flag(types.MismatchTicketSeverity, lookup.Severity)
	}
	if v.rules.TextHeuristic && nonUrgent > urgent {
		verdict.Flag(types.MismatchNonUrgentLanguage, types.SeverityStandard)
	}
	if v.rules.NeedByDistance && sub.Severity.IsCritical() {
		if needBy, ok := sub.NeedByDate(); ok && needBy.Sub(v.now()) > needByGrace {
			verdict.Flag(types.MismatchNeedByDistant, types.SeverityStandard)
		}
	}

	return verdict
}

// supportsCriticalClaim reports whether a ticket severity is strong enough
// evidence for a SEV1/SEV2 claim
func supportsCriticalClaim(s types.Severity) bool {
	return s.Rank() <= types.SeveritySev25.Rank()
}
