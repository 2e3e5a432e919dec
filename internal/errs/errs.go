// Package errs defines the error taxonomy of the request-handling layer.
//
// Every error kind carries a stable machine-readable code and an HTTP status
// (see Kind). ValidationError additionally turns a schema-validation failure
// into a diagnostic message: verbose in development (field path, expected
// shape, rejected value), terse in production.
//
//   - Return consistent error shapes to API clients (HTTPError, JSON).
//   - Keep production messages free of the values a client sent.
//   - Provide errors that play nicely with Go's standard errors package.
package errs
