// Package http contains the HTTP handlers for the Cargo Pulse API.
//
// Handlers are thin: they parse and validate the request, call into the
// services layer, and render the response with go-chi/render. Errors are
// reported as RFC 7807 problem documents through the shared error handler.
package http
