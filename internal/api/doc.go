// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// generation pipeline and the flashcard services, and map their errors to
// status codes in one place (errors.go).
package api
