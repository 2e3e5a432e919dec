// Package middleware stores global middleware and the global error handler.
//
// These intercept requests to handle cross-cutting concerns
// such as CORS, request IDs, request logging, panic recovery and
// turning the error taxonomy into HTTP responses.
package middleware
