package email

import (
	"context"
	"crypto/tls"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/deppfellow/contact-relay/internal/config"
)

// SMTPSender relays messages through an SMTP server using gomail.
//
// A new connection is dialed for every message. gomail has no context
// support, so a hung relay blocks the caller until its dial/IO timeouts fire.
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender builds a sender from the mail settings.
//
// UseSSL selects implicit TLS (usually port 465). UseTLS requires STARTTLS
// verified against the configured host name; otherwise gomail still upgrades
// opportunistically when the server offers STARTTLS.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.UseSSL

	if cfg.UseTLS || cfg.UseSSL {
		dialer.TLSConfig = &tls.Config{
			ServerName: cfg.Server,
			MinVersion: tls.VersionTLS12,
		}
	}

	return &SMTPSender{dialer: dialer}
}

// Send dials the relay, authenticates and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.FromAddress, msg.FromName)
	m.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "smtp relay %s:%d", s.dialer.Host, s.dialer.Port)
	}

	return nil
}

// Ping dials and authenticates against the relay without sending anything.
func (s *SMTPSender) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	closer, err := s.dialer.Dial()
	if err != nil {
		return errors.Wrapf(err, "smtp relay %s:%d", s.dialer.Host, s.dialer.Port)
	}

	return closer.Close()
}
