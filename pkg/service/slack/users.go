package slack

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
)

// UserResolver converts bare aliases into Slack-addressable recipients.
// Channel IDs and #channel names pass through untouched.
type UserResolver struct {
	client      interfaces.SlackClient
	emailDomain string
}

// NewUserResolver creates a UserResolver. emailDomain is appended to aliases
// for the primary lookup (alias@domain); when empty, email lookup is skipped.
func NewUserResolver(client interfaces.SlackClient, emailDomain string) *UserResolver {
	return &UserResolver{
		client:      client,
		emailDomain: emailDomain,
	}
}

// Resolve maps a recipient string to something chat.postMessage accepts.
// Lookup order: email (alias@domain), then a workspace user scan by name.
// Unresolvable aliases are returned in @alias form so delivery still has a
// chance; resolution failures are never fatal.
func (r *UserResolver) Resolve(ctx context.Context, recipient string) string {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return recipient
	}
	if strings.HasPrefix(recipient, "#") || strings.HasPrefix(recipient, "C") || strings.HasPrefix(recipient, "U") {
		return recipient
	}

	alias := strings.TrimPrefix(recipient, "@")

	if r.emailDomain != "" {
		if user, err := r.client.GetUserByEmail(ctx, alias+"@"+r.emailDomain); err == nil {
			return user.ID
		}
	}

	users, err := r.client.GetUsers(ctx)
	if err != nil {
		ctxlog.From(ctx).Debug("Slack user list failed, using alias verbatim",
			"alias", alias,
			"error", err,
		)
		return "@" + alias
	}
	for _, user := range users {
		if user.Name == alias || strings.EqualFold(user.RealName, alias) {
			return user.ID
		}
	}

	return "@" + alias
}
