// Package mail abstracts the outbound mail relay.
package mail

import (
	"context"
	"log/slog"
)

// Client sends one mail. The production relay lives outside this
// service; tests and local runs use LogClient.
type Client interface {
	Send(ctx context.Context, from, to, subject, content string) error
}

// LogClient writes outbound mail to the structured log instead of a
// relay. It never fails.
type LogClient struct{}

func (LogClient) Send(_ context.Context, from, to, subject, content string) error {
	slog.Info("mail_sent",
		"from", from,
		"to", to,
		"subject", subject,
		"content", content,
	)
	return nil
}
