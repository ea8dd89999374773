// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules defined
// in struct tags and extracts validation errors into
// field-level entries for logs and callers.
package validation
