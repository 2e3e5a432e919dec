// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import (
	"bytes"
	"encoding/json"
)

// Undefined is what PrettyJSON renders for values JSON cannot encode.
const Undefined = "undefined"

// PrettyJSON renders v as JSON indented with two spaces.
//
// HTML characters are not escaped, the output is meant for humans. Values
// JSON cannot encode (channels, funcs, cycles) render as Undefined and the
// encoding error is returned alongside.
func PrettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return Undefined, err
	}

	// Encode terminates with a newline.
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
