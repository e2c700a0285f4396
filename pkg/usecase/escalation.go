package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/secmon-lab/cuon/pkg/metrics"
	slackSvc "github.com/secmon-lab/cuon/pkg/service/slack"
	"github.com/secmon-lab/cuon/pkg/utils/apperr"
	"github.com/secmon-lab/cuon/pkg/utils/async"
	"github.com/slack-go/slack"
)

// Escalation runs the full pipeline for one form submission: validate,
// record, decide notifications, relay to Slack. Only a malformed submission
// fails the caller; every downstream step is best-effort.
type Escalation struct {
	validator       *Validator
	history         *History
	policy          *Policy
	slackClient     interfaces.SlackClient
	users           *slackSvc.UserResolver
	trackingChannel types.ChannelID
}

// NewEscalation creates the escalation pipeline
func NewEscalation(
	validator *Validator,
	history *History,
	policy *Policy,
	slackClient interfaces.SlackClient,
	users *slackSvc.UserResolver,
	trackingChannel types.ChannelID,
) *Escalation {
	return &Escalation{
		validator:       validator,
		history:         history,
		policy:          policy,
		slackClient:     slackClient,
		users:           users,
		trackingChannel: trackingChannel,
	}
}

// HandleSubmission processes one submission. The returned error is only ever
// a validation error on the submission itself; relay and tracking failures
// are logged and swallowed so the submitter still gets an acknowledgement.
func (u *Escalation) HandleSubmission(ctx context.Context, sub *model.Submission) error {
	if err := sub.Validate(); err != nil {
		return goerr.Wrap(err, "rejecting submission", goerr.V("submissionID", sub.ID))
	}

	verdict := u.validator.Validate(ctx, sub)
	recordMetrics(verdict)

	ctxlog.From(ctx).Info("submission validated",
		"submissionID", sub.ID,
		"station", sub.Station,
		"claimed", verdict.Claimed,
		"actual", verdict.Actual,
		"falseEscalation", verdict.IsFalseEscalation,
		"reason", verdict.Reason,
	)

	repeat := u.history.RecordAndCount(ctx, sub, verdict)
	notifications := u.policy.Decide(sub, verdict, repeat)

	// Slack delivery happens off the request path
	async.Dispatch(ctx, func(ctx context.Context) error {
		u.relay(ctx, sub, verdict, notifications)
		return nil
	})

	return nil
}

// relay delivers the tracking notice, approver pings, and any policy
// notifications. Each post is independently best-effort.
func (u *Escalation) relay(ctx context.Context, sub *model.Submission, verdict *model.Verdict, notifications []model.Notification) {
	u.post(ctx, u.trackingChannel.String(), slackSvc.BuildTrackingMessage(sub, verdict))

	approverNotice := slackSvc.BuildApproverNotice(u.trackingChannel.String())
	u.post(ctx, u.users.Resolve(ctx, sub.FirstApprover.String()), approverNotice)
	u.post(ctx, u.users.Resolve(ctx, sub.SecondApprover.String()), approverNotice)

	for _, n := range notifications {
		u.post(ctx, u.users.Resolve(ctx, n.Recipient), n.Body)
	}
}

func (u *Escalation) post(ctx context.Context, recipient, text string) {
	if recipient == "" {
		return
	}
	_, _, err := u.slackClient.PostMessage(ctx, recipient,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		apperr.Handle(ctx, "failed to deliver Slack message", err)
	}
}

func recordMetrics(verdict *model.Verdict) {
	metrics.Submissions.WithLabelValues(verdict.Claimed.String()).Inc()
	if verdict.IsFalseEscalation {
		metrics.FalseEscalations.WithLabelValues(verdict.Reason.String()).Inc()
	}
	if verdict.TicketID != "" {
		outcome := "not_found"
		source := "none"
		if verdict.TicketFound {
			outcome = "found"
			source = verdict.TicketSource.String()
		}
		metrics.TicketLookups.WithLabelValues(source, outcome).Inc()
	}
}
