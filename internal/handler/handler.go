// Package handler is the first entry point after the router.
//
// It decodes request bodies, validates them with the validation
// package and hands the typed payload to the endpoint function.
// Failures are returned as error kinds for the global error handler.
package handler
