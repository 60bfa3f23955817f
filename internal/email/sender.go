// Package email provides outbound mail delivery for the notify module.
package email

import "context"

// Sender delivers a rendered message to a single recipient.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender is used when email delivery is disabled. Sends succeed
// without doing anything.
type NoopSender struct{}

// Send implements Sender.
func (NoopSender) Send(_ context.Context, _, _, _ string) error {
	return nil
}
