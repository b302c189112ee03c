// Package crm holds the outbound GoHighLevel integration. The CRM owns
// email delivery and the public registration form; the portal only fires a
// notification at it and later receives the completion webhook.
package crm

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sohailc94/agmaportal/pkg/slogx"
)

// DefaultTimeout bounds the outbound call so a slow CRM cannot stall the
// issuing user's request. Failures are the caller's problem to downgrade
// to a warning, not ours.
const DefaultTimeout = 5 * time.Second

// InviteCreatedEvent is the payload GoHighLevel expects when a franchise
// owner invites an instructor.
type InviteCreatedEvent struct {
	Type            string `json:"type"`
	InviteID        string `json:"invite_id"`
	FranchiseID     string `json:"franchise_id"`
	FranchiseName   string `json:"franchise_name"`
	InvitedBy       string `json:"invited_by"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Token           string `json:"token"`
	RegistrationURL string `json:"registration_url"`
}

// Notifier delivers invite events to the CRM. The service layer depends on
// this interface so tests can substitute a stub.
type Notifier interface {
	InviteCreated(ctx context.Context, ev InviteCreatedEvent) error
}

// GHLNotifier posts invite events to a fixed GoHighLevel inbound-webhook URL.
type GHLNotifier struct {
	webhookURL string
	appBaseURL string
	client     *resty.Client
}

func NewGHLNotifier(webhookURL, appBaseURL string, timeout time.Duration) *GHLNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GHLNotifier{
		webhookURL: webhookURL,
		appBaseURL: appBaseURL,
		client:     resty.New().SetTimeout(timeout),
	}
}

// RegistrationURL builds the public signup link embedding the invite token.
func (n *GHLNotifier) RegistrationURL(token string) string {
	return n.appBaseURL + "/register-instructor?token=" + url.QueryEscape(token)
}

// InviteCreated posts the event. Non-2xx responses and transport errors are
// returned as errors; the caller decides whether they are fatal.
func (n *GHLNotifier) InviteCreated(ctx context.Context, ev InviteCreatedEvent) error {
	log := slogx.FromContext(ctx)

	if ev.Type == "" {
		ev.Type = "instructor_invite_created"
	}
	if ev.RegistrationURL == "" {
		ev.RegistrationURL = n.RegistrationURL(ev.Token)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(n.webhookURL)
	if err != nil {
		log.Warn("ghl webhook request failed", "error", err)
		return fmt.Errorf("ghl webhook: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Warn("ghl webhook rejected event",
			"status", resp.StatusCode(),
			"response", resp.String(),
		)
		return fmt.Errorf("ghl webhook: unexpected status %d", resp.StatusCode())
	}

	return nil
}
