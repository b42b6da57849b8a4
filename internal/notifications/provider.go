package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/angelmondragon/storefront/pkg/config"
)

// ProviderError carries the raw response of a rejected send.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.StatusCode, e.Body)
}

// EmailProvider delivers a rendered message.
type EmailProvider interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridProvider sends through the SendGrid v3 mail API.
type SendGridProvider struct {
	fromEmail string
	fromName  string
	send      func(ctx context.Context, email *mail.SGMailV3) (int, string, error)
}

// NewSendGridProvider returns nil when no API key is configured.
func NewSendGridProvider(cfg config.SendgridConfig) *SendGridProvider {
	if !cfg.Configured() {
		return nil
	}
	client := sendgrid.NewSendClient(strings.TrimSpace(cfg.APIKey))
	return &SendGridProvider{
		fromEmail: cfg.DefaultFrom,
		fromName:  cfg.FromName,
		send: func(ctx context.Context, email *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, email)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
	}
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(p.fromName, p.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	status, body, err := p.send(ctx, email)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &ProviderError{StatusCode: status, Body: body}
	}
	return nil
}
