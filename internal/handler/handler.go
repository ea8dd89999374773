// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, calls the appropriate service, and
// translates the service outcome into an HTTP response.
package handler
