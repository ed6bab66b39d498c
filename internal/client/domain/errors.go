package domain

import (
	"errors"

	"github.com/productrhq/productr/pkg/productr"
)

// ErrNoSubject reports an OTP step reached without a known challenge email.
// The caller must send the user back to the email-entry step; verification is
// never attempted without a subject.
var ErrNoSubject = errors.New("no challenge subject; email entry required")

// ErrBusy reports an operation invoked while a previous call of the same
// kind is still in flight. The state machine enforces single-flight itself
// rather than trusting the presentation layer to disable buttons.
var ErrBusy = errors.New("operation already in flight")

// ValidationError is a local precondition failure: incomplete code, empty
// email. It never involves the service.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ServiceRejection is a handled failure reported by the backend (wrong OTP,
// duplicate registration). The flow remains recoverable and the message is
// the service's own, surfaced verbatim.
type ServiceRejection struct {
	Message string
	Err     error
}

func (e *ServiceRejection) Error() string { return e.Message }
func (e *ServiceRejection) Unwrap() error { return e.Err }

// TransportFailure is a network-level or malformed-response failure. Surfaced
// generically; never retried automatically.
type TransportFailure struct {
	Err error
}

func (e *TransportFailure) Error() string { return "service unavailable, please try again" }
func (e *TransportFailure) Unwrap() error { return e.Err }

// ClassifyServiceError sorts an SDK error into the client taxonomy: typed
// backend rejections become ServiceRejections carrying the backend's message,
// everything else is a TransportFailure.
func ClassifyServiceError(err error, fallback string) error {
	if err == nil {
		return nil
	}

	if apiErr, ok := productr.AsAPIError(err); ok {
		msg := apiErr.Error()
		if msg == "" {
			msg = fallback
		}
		return &ServiceRejection{Message: msg, Err: err}
	}

	return &TransportFailure{Err: err}
}
