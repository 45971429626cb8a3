// Package email delivers transactional mail to agents. The Sender
// interface keeps the rest of the application unaware of the transport;
// deployments without SMTP run on the NoopSender.
package email

import (
	"context"
	"time"

	"leadflow_backend/platform/config"
)

// Sender delivers the application's transactional emails.
type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail, agentName, leadName, leadPhone string) error
	SendFollowUpReminderEmail(ctx context.Context, toEmail, agentName, leadName string, dueAt time.Time) error
	SendLeadConvertedEmail(ctx context.Context, toEmail, leadName string, courseFee, dueAmount float64) error
}

// NewSender returns the configured Sender implementation. Deployments
// without SMTP credentials get the NoopSender.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

// NoopSender drops every message. Used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendFollowUpReminderEmail(context.Context, string, string, string, time.Time) error {
	return nil
}

func (NoopSender) SendLeadConvertedEmail(context.Context, string, string, float64, float64) error {
	return nil
}
