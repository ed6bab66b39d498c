package productr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newUnthrottledClient returns an SDK client pointed at url with the
// identity limiter effectively disabled so tests can call freely.
func newUnthrottledClient(url string) *SDKClient {
	c := NewSDKClient(url)
	c.identityLimiter = newLimiter(RateLimitConfig{})
	return c
}

func TestRequestOTP(t *testing.T) {
	t.Parallel()

	t.Run("sends email and login purpose", func(t *testing.T) {
		var got OTPRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/users/otp/request", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NotEmpty(t, r.Header.Get("X-Request-Id"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		_, err := client.RequestOTP(context.Background(), "a@b.com")
		require.NoError(t, err)
		require.Equal(t, "a@b.com", got.Email)
		require.Equal(t, OTPPurposeLogin, got.Purpose)
	})

	t.Run("development backend echoes the code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]string{"otp": "123456"},
			})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		data, err := client.RequestOTP(context.Background(), "a@b.com")
		require.NoError(t, err)
		require.Equal(t, "123456", data.OTP)
	})

	t.Run("unknown email is a typed rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "User not found",
			})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		_, err := client.RequestOTP(context.Background(), "a@b.com")

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		require.Equal(t, "User not found", apiErr.Error())
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("returns identity and token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users/login", r.URL.Path)

			var req LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "a@b.com", req.Email)
			require.Equal(t, "123456", req.OTP)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"user":  map[string]string{"_id": "u1", "email": "a@b.com"},
					"token": "tok",
				},
			})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		auth, err := client.Login(context.Background(), "a@b.com", "123456")
		require.NoError(t, err)
		require.Equal(t, "tok", auth.Token)
		require.Equal(t, "u1", auth.User.ID)
	})

	t.Run("wrong code is a typed rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "Invalid OTP",
			})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		_, err := client.Login(context.Background(), "a@b.com", "000000")

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, "Invalid OTP", apiErr.Error())
	})

	t.Run("payload without token is an error, not a session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"user": map[string]string{"_id": "u1"}},
			})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		_, err := client.Login(context.Background(), "a@b.com", "123456")
		require.Error(t, err)
		_, ok := AsAPIError(err)
		require.False(t, ok)
	})

	t.Run("undecodable body is not a typed rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		_, err := client.Login(context.Background(), "a@b.com", "123456")
		require.Error(t, err)
		_, ok := AsAPIError(err)
		require.False(t, ok)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("signs in immediately", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users/register", r.URL.Path)

			var req RegisterRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "Dev", req.Name)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"user":  map[string]string{"_id": "u2", "name": "Dev", "email": "new@b.com"},
					"token": "tok-2",
				},
			})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		auth, err := client.Register(context.Background(), RegisterRequest{
			Name: "Dev", Email: "new@b.com", Password: "secret123",
		})
		require.NoError(t, err)
		require.Equal(t, "tok-2", auth.Token)
	})

	t.Run("field validation errors join in arrival order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"errors": []map[string]string{
					{"msg": "Name is required", "param": "name"},
					{"msg": "Password too short", "param": "password"},
				},
			})
		}))
		defer srv.Close()

		client := newUnthrottledClient(srv.URL)
		_, err := client.Register(context.Background(), RegisterRequest{Email: "new@b.com"})

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, "Name is required, Password too short", apiErr.Error())
	})
}
