package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateContact corresponds to templates/contact.html
	TemplateContact Template = "contact"
)
