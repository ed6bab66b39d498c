package productr

import (
	"context"
	"fmt"
	"net/http"
)

// OTPPurposeLogin is the challenge purpose sent with login OTP requests.
const OTPPurposeLogin = "login"

// RequestOTP asks the backend to issue a login OTP for the given email.
// The code is delivered out-of-band (email); development backends may echo it
// in the returned payload.
func (c *SDKClient) RequestOTP(ctx context.Context, email string) (*OTPData, error) {
	if err := c.identityLimiter.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/users/otp/request", "", OTPRequest{
		Email:   email,
		Purpose: OTPPurposeLogin,
	})
	if err != nil {
		return nil, err
	}

	var data OTPData
	if err := decodeEnvelope(resp, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

// Login exchanges an email and OTP code for an identity record and bearer
// token, completing the challenge started by RequestOTP.
func (c *SDKClient) Login(ctx context.Context, email, otp string) (*AuthData, error) {
	if err := c.identityLimiter.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/users/login", "", LoginRequest{
		Email: email,
		OTP:   otp,
	})
	if err != nil {
		return nil, err
	}

	var data AuthData
	if err := decodeEnvelope(resp, &data); err != nil {
		return nil, err
	}
	if data.Token == "" {
		return nil, fmt.Errorf("login response missing token")
	}

	return &data, nil
}

// Register creates a new account and returns its identity record and bearer
// token. The backend signs new accounts in immediately, no OTP round trip.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*AuthData, error) {
	if err := c.identityLimiter.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/users/register", "", req)
	if err != nil {
		return nil, err
	}

	var data AuthData
	if err := decodeEnvelope(resp, &data); err != nil {
		return nil, err
	}

	return &data, nil
}
