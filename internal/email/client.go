package email

import (
	"context"

	"github.com/resend/resend-go/v2"
	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers one message and returns the provider message ID
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Client sends mail through Resend
type Client struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
	replyTo     string
}

func NewClient(cfg *config.Configuration) *Client {
	if !cfg.Email.Enabled || cfg.Email.APIKey == "" {
		return &Client{enabled: false}
	}

	return &Client{
		client:      resend.NewClient(cfg.Email.APIKey),
		enabled:     true,
		fromAddress: cfg.Email.FromAddress,
		replyTo:     cfg.Email.ReplyTo,
	}
}

// NewMailer exposes the Resend client as a Mailer
func NewMailer(c *Client) Mailer {
	return c
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if !c.enabled {
		return "", ierr.NewError("email client is disabled").
			WithHint("Email delivery is not configured").
			Mark(ierr.ErrInvalidOperation)
	}

	params := &resend.SendEmailRequest{
		From:    c.fromAddress,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if c.replyTo != "" {
		params.ReplyTo = c.replyTo
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to send email").
			WithReportableDetails(map[string]any{
				"subject": msg.Subject,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	return sent.Id, nil
}
