package domain

import "time"

// CodeLength is the number of digits in a login OTP.
const CodeLength = 6

// ResendCooldown is how long a challenge must age before the code can be
// reissued.
const ResendCooldown = 20 * time.Second

// AttemptState tracks where an OTP challenge sits in its lifecycle.
type AttemptState int

const (
	// AttemptIdle: challenge issued, no verification in flight
	AttemptIdle AttemptState = iota
	// AttemptSubmitting: email submission in flight
	AttemptSubmitting
	// AttemptVerifying: code verification in flight
	AttemptVerifying
	// AttemptFailed: last verification was rejected
	AttemptFailed
	// AttemptVerified: challenge completed successfully
	AttemptVerified
)

func (s AttemptState) String() string {
	switch s {
	case AttemptIdle:
		return "idle"
	case AttemptSubmitting:
		return "submitting"
	case AttemptVerifying:
		return "verifying"
	case AttemptFailed:
		return "failed"
	case AttemptVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// OTPChallenge is the transient server-issued challenge tied to an email,
// awaiting verification. It lives only as long as the login flow and is
// never persisted.
type OTPChallenge struct {
	// Email is the challenge subject
	Email string

	// Digits holds the entered code, one cell per digit; empty string for
	// cells not yet filled
	Digits [CodeLength]string

	// Attempt is the current verification state
	Attempt AttemptState

	// ResendAvailableAt is when the code may next be reissued
	ResendAvailableAt time.Time
}

// Code joins the digit cells into the full entry.
func (c OTPChallenge) Code() string {
	var code string
	for _, d := range c.Digits {
		code += d
	}
	return code
}

// Complete reports whether every digit cell is populated.
func (c OTPChallenge) Complete() bool {
	for _, d := range c.Digits {
		if d == "" {
			return false
		}
	}
	return true
}
