/*
Package productr provides a client SDK for the Productr catalog backend.

# Overview

The SDK is organized around a single SDKClient. Unauthenticated operations
(OTP issuance, login, registration) are methods on the client itself;
operations that require a bearer token take the token explicitly so the
caller's session layer stays in control of credential lifetime.

	client := productr.NewSDKClient("https://api.productr.example.com")

	// Start an OTP login
	_, err := client.RequestOTP(ctx, "dev@example.com")

	// Complete it
	auth, err := client.Login(ctx, "dev@example.com", "123456")

	// Authenticated catalog calls
	items, err := client.ListItems(ctx, auth.Token, productr.ListItemsParams{})

# Errors

Service-reported failures are returned as *APIError, carrying the HTTP status,
the backend's message and any per-field validation entries in arrival order.
Network and decoding failures are returned as plain wrapped errors so callers
can distinguish a rejection from an unreachable or misbehaving service.

All calls are one-shot: the SDK never retries on the caller's behalf.
*/
package productr
