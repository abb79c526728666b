// Package httpjson writes JSON API responses.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write sends v as a JSON response with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error sends a JSON error body {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]any{"error": msg})
}

// ErrorDetail sends a JSON error body with extra fields merged in,
// for responses that carry a detail or a suggestion alongside the
// message.
func ErrorDetail(w http.ResponseWriter, status int, msg string, extra map[string]any) {
	body := map[string]any{"error": msg}
	for k, v := range extra {
		body[k] = v
	}
	Write(w, status, body)
}

// Decode reads the request body as JSON into dst. Unknown fields are
// ignored; a malformed body returns the decode error for the handler
// to map to a 400.
func Decode(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
