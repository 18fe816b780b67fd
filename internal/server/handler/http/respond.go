// Package http provides HTTP routing, handlers, and the shared JSON
// response envelope for the mood-journal API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/moodpair/internal/service"
)

// envelope is the shared response shape: code 0 on success, non-zero
// with a message otherwise.
type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Errs string `json:"errs"`
	Data any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeOK writes a 200 envelope with code 0.
func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: 0, Msg: "success", Errs: "", Data: data})
}

// writeFail writes a non-0 envelope with the message mirrored in errs.
func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Code: 1, Msg: msg, Errs: msg, Data: nil})
}

// writeError maps a service error onto its HTTP status; anything
// unrecognized is an internal error and its details stay server-side.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeFail(w, svcErr.Kind, svcErr.Message)
		return
	}
	writeFail(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON parses a request body into dst; false means the caller
// was already answered with a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// decodeTags coerces a raw JSON tags value into a string list.
// Anything that is not an array of strings degrades to an empty list
// rather than an error.
func decodeTags(raw json.RawMessage) []string {
	var tags []string
	if len(raw) == 0 || json.Unmarshal(raw, &tags) != nil || tags == nil {
		return []string{}
	}
	return tags
}
