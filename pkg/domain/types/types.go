package types

import (
	"github.com/google/uuid"
)

// SubmissionID represents an escalation submission identifier
type SubmissionID string

// String returns the string representation
func (id SubmissionID) String() string {
	return string(id)
}

// NewSubmissionID creates a new SubmissionID
func NewSubmissionID() SubmissionID {
	return SubmissionID(uuid.New().String())
}

// Alias represents a submitter identity (login alias, no @ prefix)
type Alias string

// String returns the string representation
func (a Alias) String() string {
	return string(a)
}

// StationID represents a station/site identifier
type StationID string

// String returns the string representation
func (id StationID) String() string {
	return string(id)
}

// ChannelID represents a Slack channel identifier
type ChannelID string

// String returns the string representation
func (id ChannelID) String() string {
	return string(id)
}

// SlackUserID represents a Slack user identifier
type SlackUserID string

// String returns the string representation
func (id SlackUserID) String() string {
	return string(id)
}

// TicketID represents an external ticket identifier
type TicketID string

// String returns the string representation
func (id TicketID) String() string {
	return string(id)
}
