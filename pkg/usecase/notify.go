package usecase

import (
	"fmt"

	"github.com/secmon-lab/cuon/pkg/domain/model"
)

// Policy decides which follow-up messages a verdict warrants. It performs no
// I/O; the relay delivers whatever it returns.
type Policy struct {
	oversightRecipient string
	windowDays         int
}

// NewPolicy creates a Policy. oversightRecipient receives coaching alerts
// for repeat offenders; when empty, no coaching alert is emitted.
func NewPolicy(oversightRecipient string, windowDays int) *Policy {
	if windowDays <= 0 {
		windowDays = model.DefaultRepeatWindowDays
	}
	return &Policy{
		oversightRecipient: oversightRecipient,
		windowDays:         windowDays,
	}
}

// Decide returns the notifications for one validated submission. A justified
// submission needs nothing beyond the normal tracking notice. A first
// offense gets a guidance message to the submitter; a repeat offense adds a
// coaching alert with the cumulative count.
func (p *Policy) Decide(sub *model.Submission, verdict *model.Verdict, repeat *model.RepeatInfo) []model.Notification {
	if !verdict.IsFalseEscalation {
		return nil
	}

	notifications := []model.Notification{
		{
			Recipient: sub.Submitter.String(),
			Body:      guidanceBody(sub, verdict),
		},
	}

	if repeat.IsRepeat && p.oversightRecipient != "" {
		notifications = append(notifications, model.Notification{
			Recipient: p.oversightRecipient,
			Body:      coachingBody(sub, verdict, repeat, p.windowDays),
		})
	}

	return notifications
}

func guidanceBody(sub *model.Submission, verdict *model.Verdict) string {
	return fmt.Sprintf(
		"Hi! Your escalation for station %s went through and is being tracked. "+
			"One note: it was submitted as %s, but %s. "+
			"Based on the available evidence it will be handled as %s. "+
			"No action needed from you; this is just to help calibrate future submissions.",
		sub.Station, verdict.Claimed, verdict.Rationale, verdict.Actual)
}

func coachingBody(sub *model.Submission, verdict *model.Verdict, repeat *model.RepeatInfo, windowDays int) string {
	return fmt.Sprintf(
		"Coaching alert: %s has submitted %d false escalations in the last %d days. "+
			"Latest: station %s, claimed %s, handled as %s (%s). "+
			"Please consider a coaching conversation.",
		sub.Submitter, repeat.Count, windowDays, sub.Station, verdict.Claimed, verdict.Actual, verdict.Reason)
}
