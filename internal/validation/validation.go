// Package validation contains the logic for validating
// request data.
//
// Request bodies are decoded, checked against a schema validator and turned
// into *errs.ValidationError (or *errs.ParseError for undecodable bodies) so
// the global error handler can answer with a consistent shape.
package validation
