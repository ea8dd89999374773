package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contact-relay/internal/errs"
	"github.com/deppfellow/contact-relay/internal/middleware"
	"github.com/deppfellow/contact-relay/internal/model"
	"github.com/deppfellow/contact-relay/internal/server"
	"github.com/deppfellow/contact-relay/internal/service"
)

// Client-facing messages of POST /api/contact.
const (
	MessageSent           = "Message sent successfully!"
	MessageFieldsRequired = "All fields are required!"
	MessageDeliveryFailed = "Failed to send message. Please try again later."
)

// ContactResponse is the success body.
type ContactResponse struct {
	Message string `json:"message"`
}

// ContactHandler exposes the contact form endpoint.
type ContactHandler struct {
	Handler
	contact *service.ContactService
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(s *server.Server, contact *service.ContactService) *ContactHandler {
	return &ContactHandler{
		Handler: NewHandler(s),
		contact: contact,
	}
}

// Submit handles POST /api/contact.
//
// A body that cannot be parsed counts as a validation failure. The service
// outcome is translated to an HTTP status here and nowhere else.
func (h *ContactHandler) Submit(c echo.Context) error {
	return handleRequest(c, "contact_submit", func(c echo.Context) (any, error) {
		var sub model.Submission
		if err := c.Bind(&sub); err != nil {
			middleware.GetLogger(c).Debug().Err(err).Msg("contact body could not be parsed")
			return nil, outcomeError(service.Outcome{Kind: service.ValidationFailure, Err: err})
		}

		outcome := h.contact.Submit(c.Request().Context(), &sub)
		if outcome.Kind != service.Sent {
			return nil, outcomeError(outcome)
		}

		return ContactResponse{Message: MessageSent}, nil
	}, http.StatusOK)
}

// outcomeError maps a failed outcome to the error the client sees.
// The cause in outcome.Err is deliberately dropped.
func outcomeError(outcome service.Outcome) *errs.HTTPError {
	switch outcome.Kind {
	case service.ValidationFailure:
		return errs.NewBadRequestError(MessageFieldsRequired)
	default:
		return errs.NewInternalServerError().WithMessage(MessageDeliveryFailed)
	}
}
