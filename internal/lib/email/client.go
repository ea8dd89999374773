// Package email provides an email sending client.
//
// It relays mail through an SMTP server (gomail) and renders
// HTML bodies from templates embedded in the binary.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/contact-relay/internal/config"
)

// Client renders templates and hands the result to a Sender.
type Client struct {
	sender   Sender
	renderer *Renderer
	from     config.MailConfig
	logger   *zerolog.Logger
}

// NewClient creates an email Client that sends from the configured default
// sender identity.
func NewClient(cfg *config.Config, sender Sender, logger *zerolog.Logger) (*Client, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Client{
		sender:   sender,
		renderer: renderer,
		from:     cfg.Mail,
		logger:   logger,
	}, nil
}

// SendParams describes one outgoing email.
type SendParams struct {
	To       string
	ReplyTo  string
	Subject  string
	Template Template
	Data     any
}

// SendEmail renders p.Template with p.Data and delivers it.
//
// Steps:
//   - Execute the embedded template into HTML
//   - Build the message from the default sender identity
//   - Deliver it through the Sender, once, without retry
func (c *Client) SendEmail(ctx context.Context, p SendParams) error {
	body, err := c.renderer.Render(p.Template, p.Data)
	if err != nil {
		return err
	}

	msg := &Message{
		FromName:    c.from.DefaultSenderName,
		FromAddress: c.from.DefaultSenderEmail,
		To:          []string{p.To},
		ReplyTo:     p.ReplyTo,
		Subject:     p.Subject,
		HTML:        body,
	}

	if err := c.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("template", string(p.Template)).
		Str("to", p.To).
		Msg("email delivered to relay")

	return nil
}

// Ping checks that the relay is reachable when the sender supports it.
func (c *Client) Ping(ctx context.Context) error {
	if p, ok := c.sender.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
