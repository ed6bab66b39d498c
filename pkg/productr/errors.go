package productr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a handled failure reported by the backend: a non-2xx
// status with a decodable body, or a 2xx envelope with success=false.
// Network failures and undecodable bodies are NOT APIErrors; they surface as
// plain wrapped errors so callers can tell a rejection from a broken wire.
type APIError struct {
	// StatusCode is the HTTP status the backend responded with
	StatusCode int

	// Message is the backend's top-level message, if any
	Message string

	// Fields holds per-field validation failures in arrival order
	Fields []FieldError
}

// Error implements the error interface. Field-level failures are joined into
// one display message, one entry per field, in arrival order.
func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Msg)
		}
		return strings.Join(msgs, ", ")
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// AsAPIError unwraps err into an *APIError if the chain contains one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseErrorResponse turns a non-success backend response into a typed error.
// It cascades through the response shapes the backend is known to produce:
// field-validation lists first, then the plain message envelope, then a
// generic error built from the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Errors) > 0 || env.Message != "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    env.Message,
				Fields:     env.Errors,
			}
		}
	}

	// Legacy handlers return a bare {"message": ...} without the envelope.
	var bare struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &bare); err == nil && bare.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: bare.Message}
	}

	return &APIError{StatusCode: resp.StatusCode}
}
