package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/contact-relay/internal/config"
	"github.com/deppfellow/contact-relay/internal/lib/email"
	"github.com/deppfellow/contact-relay/internal/model"
	"github.com/deppfellow/contact-relay/internal/validation"
)

// OutcomeKind tags the result of one contact submission.
type OutcomeKind int

const (
	// Sent means the relay accepted the email.
	Sent OutcomeKind = iota
	// ValidationFailure means the submission was rejected before any side effect.
	ValidationFailure
	// DeliveryFailure means rendering or relaying failed after validation.
	DeliveryFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Sent:
		return "sent"
	case ValidationFailure:
		return "validation_failure"
	case DeliveryFailure:
		return "delivery_failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of ContactService.Submit.
//
// Err holds the cause for failures. It is for logs only and must never be
// written to a response.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

// ContactMailer is the part of the email client the contact pipeline needs.
type ContactMailer interface {
	SendContactEmail(ctx context.Context, recipient string, replyToSubmitter bool, e email.ContactEmail) error
}

// ContactService validates a submission, renders it and relays it, in that
// order, once. It holds no per-request state.
type ContactService struct {
	mailer ContactMailer
	mail   config.MailConfig
	logger *zerolog.Logger
}

// NewContactService creates the contact pipeline.
func NewContactService(mailer ContactMailer, mail config.MailConfig, logger *zerolog.Logger) *ContactService {
	return &ContactService{
		mailer: mailer,
		mail:   mail,
		logger: logger,
	}
}

// Submit runs the pipeline for one submission.
//
// A submission with any empty field never reaches the mailer. Delivery is
// attempted exactly once; a failed delivery is logged and reported as
// DeliveryFailure, and panics past validation are reported the same way.
func (s *ContactService) Submit(ctx context.Context, sub *model.Submission) (outcome Outcome) {
	logger := s.loggerFrom(ctx)

	if fieldErrors := validation.Validate(sub); fieldErrors != nil {
		logger.Debug().
			Strs("missing_fields", fieldErrors.Fields()).
			Msg("contact submission rejected")
		return Outcome{Kind: ValidationFailure, Err: fieldErrors}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while sending contact email: %v", r)
			logger.Error().Err(err).Msg("Failed to send email")
			outcome = Outcome{Kind: DeliveryFailure, Err: err}
		}
	}()

	start := time.Now()
	err := s.mailer.SendContactEmail(ctx, s.mail.Recipient, s.mail.ReplyToSubmitter, email.ContactEmail{
		Name:    string(sub.Name),
		Email:   string(sub.Email),
		Subject: string(sub.Subject),
		Message: string(sub.Message),
	})
	if err != nil {
		logger.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Failed to send email")
		return Outcome{Kind: DeliveryFailure, Err: err}
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Msg("contact email sent")

	return Outcome{Kind: Sent}
}

// loggerFrom prefers the request-scoped logger stored in ctx.
func (s *ContactService) loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
