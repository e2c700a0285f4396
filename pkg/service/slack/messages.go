package slack

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/cuon/pkg/domain/model"
)

// BuildTrackingMessage formats the channel notice for one submission. The
// field layout matches the escalation form so approvers can act from the
// message alone.
func BuildTrackingMessage(sub *model.Submission, verdict *model.Verdict) string {
	var b strings.Builder

	fmt.Fprintf(&b, ":rotating_light: PO Escalation Request\n\n")
	fmt.Fprintf(&b, "Severity: %s\n", sub.Severity)
	fmt.Fprintf(&b, "Station: %s\n", sub.Station)
	fmt.Fprintf(&b, "Order Link: %s\n", sub.OrderLink)
	fmt.Fprintf(&b, "Ticket Link: %s\n", ticketLinkOrSentinel(sub.TicketLink))
	fmt.Fprintf(&b, "Need by: %s\n", sub.NeedBy)
	fmt.Fprintf(&b, "Description: %s\n", sub.Description)
	fmt.Fprintf(&b, "First Approver: %s\n", sub.FirstApprover)
	fmt.Fprintf(&b, "Second Approver: %s\n", sub.SecondApprover)
	fmt.Fprintf(&b, "\nSubmitted at: %s", sub.SubmittedAt.Format("2006-01-02 15:04:05"))

	if verdict != nil && verdict.IsFalseEscalation {
		fmt.Fprintf(&b, "\n\n:warning: Severity review: claimed %s, suggested %s (%s)",
			verdict.Claimed, verdict.Actual, verdict.Rationale)
	}

	return b.String()
}

// BuildApproverNotice formats the short DM sent to each approver
func BuildApproverNotice(trackingChannel string) string {
	return fmt.Sprintf("Hello, you have a new escalation awaiting review in <#%s>. Please action it accordingly.", trackingChannel)
}

func ticketLinkOrSentinel(link string) string {
	if strings.TrimSpace(link) == "" {
		return model.TicketLinkNotProvided
	}
	return link
}
