package interfaces

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackClient defines the Slack API surface the relay depends on
type SlackClient interface {
	PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetUserByEmail(ctx context.Context, email string) (*slack.User, error)
	GetUsers(ctx context.Context) ([]slack.User, error)
}
