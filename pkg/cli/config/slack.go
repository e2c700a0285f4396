package config

import (
	"log/slog"

	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	slackSvc "github.com/secmon-lab/cuon/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack configuration
type Slack struct {
	OAuthToken      string
	TrackingChannel string
	EmailDomain     string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for API access",
			Category:    "Slack",
			Sources:     cli.EnvVars("CUON_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-tracking-channel",
			Usage:       "Channel ID that receives every escalation notice",
			Category:    "Slack",
			Sources:     cli.EnvVars("CUON_SLACK_TRACKING_CHANNEL"),
			Destination: &s.TrackingChannel,
		},
		&cli.StringFlag{
			Name:        "slack-email-domain",
			Usage:       "Email domain appended to aliases for user lookup",
			Category:    "Slack",
			Sources:     cli.EnvVars("CUON_SLACK_EMAIL_DOMAIN"),
			Destination: &s.EmailDomain,
		},
	}
}

// Configure creates a Slack client, or nil when not configured
func (s *Slack) Configure() interfaces.SlackClient {
	if !s.IsConfigured() {
		return nil
	}
	return slackSvc.New(s.OAuthToken)
}

// IsConfigured checks if Slack is properly configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.TrackingChannel != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("tracking_channel", s.TrackingChannel),
		slog.String("email_domain", s.EmailDomain),
	)
}
