// Package model holds the request-scoped domain types.
package model

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Submission is one contact-form entry. It lives for the duration of a single
// request and is never stored.
//
// Fields are untrusted and taken verbatim: no trimming, normalization or
// address-shape checks beyond presence.
type Submission struct {
	Name    Text `json:"name" validate:"required"`
	Email   Text `json:"email" validate:"required"`
	Subject Text `json:"subject" validate:"required"`
	Message Text `json:"message" validate:"required"`
}

// Validate reports every missing or empty field as validator.ValidationErrors.
func (s *Submission) Validate() error {
	return validate.Struct(s)
}
