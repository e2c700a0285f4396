package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

// Service provides Slack messaging capabilities
type Service struct {
	client *slack.Client
}

// New creates a new Slack service
func New(token string) *Service {
	return &Service{
		client: slack.New(token),
	}
}

// PostMessage sends a message to a Slack channel or user
func (s *Service) PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	channel, timestamp, err := s.client.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to post message to Slack",
			goerr.V("channel", channelID))
	}
	return channel, timestamp, nil
}

// GetUserByEmail looks up a Slack user by email address
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*slack.User, error) {
	user, err := s.client.GetUserByEmailContext(ctx, email)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up Slack user by email")
	}
	return user, nil
}

// GetUsers lists all workspace users
func (s *Service) GetUsers(ctx context.Context) ([]slack.User, error) {
	users, err := s.client.GetUsersContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list Slack users")
	}
	return users, nil
}

var _ interfaces.SlackClient = (*Service)(nil)
