package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Response is what every handler returns on success.
type Response struct {
	Status int
	Body   any
}

// Func is the handler signature every endpoint uses.
// Return (*Response, nil) on success or (nil, err) on failure.
type Func func(r *http.Request) (*Response, error)

type errorBody struct {
	Errors []string `json:"errors"`
}

// Error is a user-facing HTTP error. Any other error type results in a
// generic 500.
type Error struct {
	Code     int
	Messages []string
}

func (e Error) Error() string { return strings.Join(e.Messages, "; ") }

// ClientErr constructs a user-facing Error with the given HTTP status and message(s).
func ClientErr(code int, msgs ...string) error {
	return Error{Code: code, Messages: msgs}
}

// Handle adapts a Func into a standard http.HandlerFunc. It is the single
// place that writes HTTP responses.
func (s *Server) Handle(fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r)
		if err != nil {
			var apiErr Error
			if errors.As(err, &apiErr) {
				writeJSON(w, apiErr.Code, errorBody{Errors: apiErr.Messages})
				return
			}
			s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
			writeJSON(w, http.StatusInternalServerError, errorBody{Errors: []string{"internal error"}})
			return
		}
		if resp.Body != nil {
			writeJSON(w, resp.Status, resp.Body)
		} else {
			w.WriteHeader(resp.Status)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
