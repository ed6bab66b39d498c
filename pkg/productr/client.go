package productr

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Productr catalog backend.
// It covers both the identity endpoints (OTP login, registration) and the
// authenticated catalog endpoints (items, users).
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// identityLimiter throttles calls to the identity endpoints so a
	// misbehaving caller cannot hammer the OTP issuer. See ratelimit.go.
	identityLimiter *limiter
}

// NewSDKClient creates a new catalog backend client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		identityLimiter: newLimiter(IdentityLimit),
	}
}
