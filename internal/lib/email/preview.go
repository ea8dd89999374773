package email

// PreviewData contains sample template data for local preview/testing.
//
// It maps:
//
//	templateName -> (templateVariableName -> exampleValue)
var PreviewData = map[Template]map[string]string{
	TemplateContact: {
		"Name":    "Jane Doe",
		"Email":   "jane@example.com",
		"Subject": "Project inquiry",
		"Message": "Hi,\nI'd like to talk about a new project.\nThanks!",
	},
}
