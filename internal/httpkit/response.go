// Package httpkit holds the JSON request/response conventions shared by all
// clipforge HTTP handlers: the error envelope, strict request decoding and
// CORS.
package httpkit

import (
	"encoding/json"
	"net/http"

	"clipforge/internal/pkg/errors"
)

// ErrorEnvelope is the wire shape of every error response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the typed error code, a human message and optional
// structured details.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// maxBodyBytes bounds request bodies; edit specs are small.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes a request body strictly: unknown fields are rejected so
// a misspelled edit-spec key fails loudly instead of silently rendering the
// wrong thing.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteErr writes an error envelope with an explicit status and code.
func WriteErr(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	WriteJSON(w, status, ErrorEnvelope{Error: ErrorBody{
		Code:    code,
		Message: msg,
		Details: details,
	}})
}

// WriteError maps a typed error onto the envelope: status and code from the
// error's classification, structured fields as details. Untyped errors come
// out as 500 INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, err error) {
	WriteErr(w,
		errors.HTTPStatus(err),
		string(errors.GetCode(err)),
		err.Error(),
		errors.GetFields(err),
	)
}
