// Package authflow implements the OTP challenge-response login: email
// submission, code entry, verification and the resend countdown. One Flow
// instance lives per login attempt; on success it commits the session
// exactly once and is done.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/productrhq/productr/internal/client/domain"
	"github.com/productrhq/productr/pkg/productr"
)

// State is the position of the flow in the login protocol.
type State int

const (
	StateEnteringEmail State = iota
	StateRequestingOTP
	StateAwaitingCode
	StateVerifyingCode
	StateAuthenticated
	StateCodeRejected
)

func (s State) String() string {
	switch s {
	case StateEnteringEmail:
		return "entering_email"
	case StateRequestingOTP:
		return "requesting_otp"
	case StateAwaitingCode:
		return "awaiting_code"
	case StateVerifyingCode:
		return "verifying_code"
	case StateAuthenticated:
		return "authenticated"
	case StateCodeRejected:
		return "code_rejected"
	default:
		return "unknown"
	}
}

// Fallback messages used when the service reports a failure without one.
const (
	fallbackRequestMsg = "Error requesting OTP"
	fallbackVerifyMsg  = "Please enter a valid OTP"
	fallbackResendMsg  = "Failed to resend OTP"
)

// errFlowClosed is returned by every operation once Close has run.
var errFlowClosed = errors.New("authflow: flow closed")

// Identity is the slice of the backend SDK the flow drives.
type Identity interface {
	RequestOTP(ctx context.Context, email string) (*productr.OTPData, error)
	Login(ctx context.Context, email, otp string) (*productr.AuthData, error)
}

// Sessions is where a verified identity is committed.
type Sessions interface {
	CommitSession(ctx context.Context, user *productr.User, token string) error
}

// Flow is the OTP login state machine. All methods are safe for concurrent
// use; network operations are single-flight, guarded by the state itself
// rather than by the presentation layer.
type Flow struct {
	// Now is the clock; replaceable in tests.
	Now func() time.Time

	// OnResendReady, when set, runs once each time the resend cooldown
	// elapses. The underlying timer belongs to the flow and dies with it.
	OnResendReady func()

	identity Identity
	sessions Sessions
	logger   *slog.Logger

	mu          sync.Mutex
	state       State
	challenge   domain.OTPChallenge
	focus       int
	resending   bool
	resendTimer *time.Timer
	closed      bool
}

func NewFlow(identity Identity, sessions Sessions, logger *slog.Logger) *Flow {
	return &Flow{
		Now:      time.Now,
		identity: identity,
		sessions: sessions,
		logger:   logger,
		state:    StateEnteringEmail,
	}
}

// State returns the current protocol position.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Challenge returns a snapshot of the current challenge.
func (f *Flow) Challenge() domain.OTPChallenge {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.challenge
}

// Focus returns the index of the digit cell that currently has input focus.
func (f *Flow) Focus() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focus
}

// ResendAvailableAt returns when the code may next be reissued. Consumers
// derive the remaining seconds themselves; the flow never exposes a ticking
// value.
func (f *Flow) ResendAvailableAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.challenge.ResendAvailableAt
}

// ResendAvailable reports whether the cooldown has elapsed.
func (f *Flow) ResendAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.Now().Before(f.challenge.ResendAvailableAt)
}

// SubmitEmail starts the challenge: asks the backend to issue an OTP for
// email. On success the flow moves to awaiting-code with a fresh 20 second
// resend cooldown. On failure it stays at email entry and the service's
// message is surfaced.
func (f *Flow) SubmitEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return errFlowClosed
	}
	switch f.state {
	case StateEnteringEmail:
		// proceed
	case StateRequestingOTP:
		f.mu.Unlock()
		return domain.ErrBusy
	default:
		f.mu.Unlock()
		return &domain.ValidationError{Reason: "a code has already been requested"}
	}
	if email == "" {
		f.mu.Unlock()
		return &domain.ValidationError{Reason: "please enter your email"}
	}
	f.state = StateRequestingOTP
	f.challenge.Attempt = domain.AttemptSubmitting
	f.mu.Unlock()

	_, err := f.identity.RequestOTP(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		// Close landed while the request was in flight; the result has
		// no owner anymore.
		return errFlowClosed
	}
	if err != nil {
		f.state = StateEnteringEmail
		f.challenge.Attempt = domain.AttemptIdle
		return domain.ClassifyServiceError(err, fallbackRequestMsg)
	}

	f.challenge = domain.OTPChallenge{
		Email:             email,
		Attempt:           domain.AttemptIdle,
		ResendAvailableAt: f.Now().Add(domain.ResendCooldown),
	}
	f.state = StateAwaitingCode
	f.focus = 0
	f.armResendTimerLocked(domain.ResendCooldown)
	f.logger.Debug("otp challenge issued", "email", email)
	return nil
}

// EnterDigit writes value into the digit cell at index. A digit advances
// focus to the next cell; an empty value clears the cell, or retreats focus
// when the cell is already empty (backspace semantics). Editing after a
// rejected attempt returns the flow to awaiting-code.
func (f *Flow) EnterDigit(index int, value string) error {
	if index < 0 || index >= domain.CodeLength {
		return &domain.ValidationError{Reason: "digit index out of range"}
	}
	if value != "" && !isDigit(value) {
		return &domain.ValidationError{Reason: "code cells accept a single digit"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errFlowClosed
	}
	if f.state != StateAwaitingCode && f.state != StateCodeRejected {
		return &domain.ValidationError{Reason: "no code entry in progress"}
	}

	if value == "" {
		if f.challenge.Digits[index] == "" {
			if index > 0 {
				f.focus = index - 1
			}
			return nil
		}
		f.challenge.Digits[index] = ""
		f.focus = index
	} else {
		f.challenge.Digits[index] = value
		if index < domain.CodeLength-1 {
			f.focus = index + 1
		}
	}

	// Editing clears a previous rejection.
	if f.state == StateCodeRejected {
		f.state = StateAwaitingCode
		f.challenge.Attempt = domain.AttemptIdle
	}
	return nil
}

// Paste fills cells left-to-right from index 0 with up to 6 characters of s,
// overwriting existing entries, and focuses the last filled cell.
func (f *Flow) Paste(s string) error {
	runes := []rune(s)
	if len(runes) > domain.CodeLength {
		runes = runes[:domain.CodeLength]
	}
	for _, r := range runes {
		if r < '0' || r > '9' {
			return &domain.ValidationError{Reason: "pasted code must be numeric"}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errFlowClosed
	}
	if f.state != StateAwaitingCode && f.state != StateCodeRejected {
		return &domain.ValidationError{Reason: "no code entry in progress"}
	}

	for i, r := range runes {
		f.challenge.Digits[i] = string(r)
	}
	if len(runes) > 0 {
		f.focus = len(runes) - 1
		if f.focus > domain.CodeLength-1 {
			f.focus = domain.CodeLength - 1
		}
	}
	if f.state == StateCodeRejected {
		f.state = StateAwaitingCode
		f.challenge.Attempt = domain.AttemptIdle
	}
	return nil
}

// Verify submits the entered code. All six digits must be populated or the
// call fails locally without touching the service. On acceptance the
// identity is committed to the session store, exactly once; on rejection the
// digits stay put so the user can correct them.
func (f *Flow) Verify(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return errFlowClosed
	}
	switch f.state {
	case StateVerifyingCode, StateRequestingOTP:
		f.mu.Unlock()
		return domain.ErrBusy
	case StateAwaitingCode, StateCodeRejected:
		// proceed
	case StateAuthenticated:
		f.mu.Unlock()
		return nil // already done
	default:
		f.mu.Unlock()
		return domain.ErrNoSubject
	}
	if f.challenge.Email == "" {
		// Direct navigation to the code step without a subject: back to
		// email entry, never verify blind.
		f.state = StateEnteringEmail
		f.mu.Unlock()
		return domain.ErrNoSubject
	}
	if !f.challenge.Complete() {
		f.mu.Unlock()
		return &domain.ValidationError{Reason: "Please enter a valid OTP"}
	}
	email := f.challenge.Email
	code := f.challenge.Code()
	f.state = StateVerifyingCode
	f.challenge.Attempt = domain.AttemptVerifying
	f.mu.Unlock()

	auth, err := f.identity.Login(ctx, email, code)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		// Any service-side failure, including malformed payloads, reads
		// as a rejected verification. Digits stay for correction.
		f.state = StateCodeRejected
		f.challenge.Attempt = domain.AttemptFailed
		return domain.ClassifyServiceError(err, fallbackVerifyMsg)
	}

	if err := f.sessions.CommitSession(ctx, &auth.User, auth.Token); err != nil {
		f.state = StateAwaitingCode
		f.challenge.Attempt = domain.AttemptIdle
		return fmt.Errorf("failed to commit session: %w", err)
	}

	f.state = StateAuthenticated
	f.challenge.Attempt = domain.AttemptVerified
	f.stopResendTimerLocked()
	f.logger.Info("login verified", "email", email)
	return nil
}

// Resend reissues the code. Before the cooldown elapses it is a no-op: the
// digits and the countdown are left untouched. After it, a successful resend
// clears the digits and restarts the 20 second cooldown; a failed one keeps
// the existing countdown unchanged.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return errFlowClosed
	}
	if f.state != StateAwaitingCode && f.state != StateCodeRejected {
		f.mu.Unlock()
		return domain.ErrNoSubject
	}
	if f.Now().Before(f.challenge.ResendAvailableAt) {
		f.mu.Unlock()
		return nil
	}
	if f.resending {
		f.mu.Unlock()
		return domain.ErrBusy
	}
	f.resending = true
	email := f.challenge.Email
	f.mu.Unlock()

	_, err := f.identity.RequestOTP(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.resending = false
	if f.closed {
		return errFlowClosed
	}
	if err != nil {
		return domain.ClassifyServiceError(err, fallbackResendMsg)
	}

	f.challenge.Digits = [domain.CodeLength]string{}
	f.challenge.Attempt = domain.AttemptIdle
	f.challenge.ResendAvailableAt = f.Now().Add(domain.ResendCooldown)
	f.state = StateAwaitingCode
	f.focus = 0
	f.armResendTimerLocked(domain.ResendCooldown)
	f.logger.Debug("otp reissued", "email", email)
	return nil
}

// Close tears the flow down, cancelling the resend countdown. Called when
// the user navigates away from the login flow.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.stopResendTimerLocked()
}

func (f *Flow) armResendTimerLocked(d time.Duration) {
	f.stopResendTimerLocked()
	if f.closed || f.OnResendReady == nil {
		return
	}
	f.resendTimer = time.AfterFunc(d, f.OnResendReady)
}

func (f *Flow) stopResendTimerLocked() {
	if f.resendTimer != nil {
		f.resendTimer.Stop()
		f.resendTimer = nil
	}
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
