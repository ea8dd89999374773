// Package service contains the business logic.
//
// It sits between the handler layer and the integrations in lib.
// It receives parsed data from the handler, performs the business
// operation and reports an explicit outcome back.
package service

import (
	"github.com/deppfellow/contact-relay/internal/server"
)

type Services struct {
	Contact *ContactService
}

func NewServices(s *server.Server) (*Services, error) {
	return &Services{
		Contact: NewContactService(s.Email, s.Config.Mail, s.Logger),
	}, nil
}
