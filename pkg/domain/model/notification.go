package model

// Notification is one message the policy decided to send. Recipient is a
// Slack channel ID, user ID, or a bare alias that the relay resolves.
type Notification struct {
	Recipient string
	Body      string
}
