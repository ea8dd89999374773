// Package errs define custom error types and utilities.
//
// Its purpose is to give every failed request the same
// JSON shape and to keep internal error detail out of
// responses.
package errs
