package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/productrhq/productr/internal/client/session"
	"github.com/productrhq/productr/internal/client/store/drivers/sqlite"
	"github.com/productrhq/productr/pkg/slogx"
)

const (
	testEmail = "dev@example.com"
	testOTP   = "245810"
)

// fakeBackend is an in-process stand-in for the catalog API, speaking the
// same envelope format the real service does.
type fakeBackend struct {
	mu   sync.Mutex
	otps map[string]string

	// otpRequests counts OTP issues, including resends.
	otpRequests int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{otps: make(map[string]string)}
}

func (b *fakeBackend) start(t *testing.T) string {
	t.Helper()

	// Method-prefixed ServeMux patterns need Go 1.22+; with the Go 1.21
	// toolchain the method guard has to be explicit.
	mux := http.NewServeMux()
	mux.HandleFunc("/users/otp/request", withMethod(http.MethodPost, b.handleOTPRequest))
	mux.HandleFunc("/users/login", withMethod(http.MethodPost, b.handleLogin))
	mux.HandleFunc("/items", withMethod(http.MethodGet, b.handleListItems))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func (b *fakeBackend) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string `json:"email"`
		Purpose string `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Email is required",
		})
		return
	}

	b.mu.Lock()
	b.otps[req.Email] = testOTP
	b.otpRequests++
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "OTP sent successfully",
	})
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request",
		})
		return
	}

	b.mu.Lock()
	want, ok := b.otps[req.Email]
	b.mu.Unlock()

	if !ok || req.OTP != want {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Invalid or expired OTP",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"data": map[string]any{
			"user": map[string]any{
				"_id":   "665f1c2ab6a9d53c1c000001",
				"name":  "Dev User",
				"email": req.Email,
				"role":  "admin",
			},
			"token": signTestToken(req.Email),
		},
	})
}

func (b *fakeBackend) handleListItems(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Unauthorized",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": []map[string]any{
			{
				"_id":         "665f1c2ab6a9d53c1c000101",
				"productName": "Aurora Desk Lamp",
				"brandName":   "Lumio",
				"status":      "Active",
			},
		},
	})
}

func (b *fakeBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.otpRequests
}

func withMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func signTestToken(email string) string {
	claims := jwt.MapClaims{
		"sub":   "665f1c2ab6a9d53c1c000001",
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("e2e-secret"))
	if err != nil {
		panic(err)
	}
	return signed
}

// newSessionStore opens a sqlite-backed session store over the given state
// file, applying migrations first.
func newSessionStore(t *testing.T, stateFile string) *session.Store {
	t.Helper()

	db, err := sqlite.NewStore("file:" + stateFile + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	return session.NewStore(db, slogx.Discard())
}

func stateFilePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.db")
}
