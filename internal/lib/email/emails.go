package email

import "context"

// ContactEmail is the data of one contact-form notification.
type ContactEmail struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SendContactEmail delivers a contact-form submission to recipient.
//
// The submission's subject is used verbatim as the email subject. When
// replyToSubmitter is set, replies go to the address typed into the form.
func (c *Client) SendContactEmail(ctx context.Context, recipient string, replyToSubmitter bool, e ContactEmail) error {
	params := SendParams{
		To:       recipient,
		Subject:  e.Subject,
		Template: TemplateContact,
		Data:     e,
	}
	if replyToSubmitter {
		params.ReplyTo = e.Email
	}

	return c.SendEmail(ctx, params)
}
