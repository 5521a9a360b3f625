package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned when the silent refresh-and-retry fails and
// local credentials have been purged.
var ErrUnauthorized = errors.New("authentication required")

// APIError is a non-2xx response. Fields carries the per-field validation
// messages some endpoints return (e.g. {"username": ["already exists"]});
// Detail is the server's free-text message when present.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// FieldError returns the first message for the named field.
func (e *APIError) FieldError(name string) (string, bool) {
	msgs, ok := e.Fields[name]
	if !ok || len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// parseAPIError builds an APIError from a response body. The body may be an
// RFC 7807 problem, a {"detail": ...} object, or a field->messages map; all
// three shapes are probed.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}
	for key, val := range raw {
		var s string
		if json.Unmarshal(val, &s) == nil {
			if key == "detail" || key == "title" {
				apiErr.Detail = s
			}
			continue
		}
		var msgs []string
		if json.Unmarshal(val, &msgs) == nil && len(msgs) > 0 {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = msgs
		}
	}
	return apiErr
}

// conflictFields are probed in order when mapping a write failure to a
// user-facing message.
var conflictFields = []struct {
	name    string
	message string
}{
	{"username", "that username is already taken"},
	{"email", "that email address is already in use"},
	{"password", "the password does not meet the requirements"},
	{"phone", "that phone number is already registered"},
}

// UserMessage maps an error to the text shown in a notification. Known
// conflict fields produce a specific message; everything else falls back to
// a generic one.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		for _, f := range conflictFields {
			if msg, ok := apiErr.FieldError(f.name); ok {
				if msg != "" {
					return f.message
				}
			}
		}
		if apiErr.StatusCode == http.StatusNotFound {
			return "the record no longer exists"
		}
	}
	if errors.Is(err, ErrUnauthorized) {
		return "your session has expired, please log in again"
	}
	return "something went wrong, please try again"
}
