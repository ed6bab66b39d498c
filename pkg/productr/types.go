package productr

import "encoding/json"

// ============================================================================
// Response Envelope
// ============================================================================

// envelope is the standard response wrapper used by every backend endpoint.
// Data is left raw so each call site can decode into its own payload type.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

// FieldError is a single field-level validation failure reported by the
// backend (express-validator shape).
type FieldError struct {
	// Msg is the human-readable failure message for this field
	Msg string `json:"msg"`

	// Param is the offending field name, when the backend reports it
	Param string `json:"param,omitempty"`
}

// ============================================================================
// Identity Types
// ============================================================================

// User is the identity record returned by login and registration and echoed
// by the user-management endpoints.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// AuthData is the payload of a successful login or registration: the identity
// record plus the bearer credential for subsequent authenticated calls.
type AuthData struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// OTPRequest is the body of POST /users/otp/request.
type OTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// OTPData is the optional payload returned by the OTP-request endpoint.
// The code itself is only echoed by development backends.
type OTPData struct {
	OTP string `json:"otp,omitempty"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ============================================================================
// Catalog Types
// ============================================================================

// Item is a catalog entry. The same record backs both the Items pages and the
// product dashboard.
type Item struct {
	ID                  string   `json:"_id,omitempty"`
	ProductName         string   `json:"productName"`
	BrandName           string   `json:"brandName,omitempty"`
	Description         string   `json:"description,omitempty"`
	ProductType         string   `json:"productType,omitempty"`
	SellingPrice        float64  `json:"sellingPrice,omitempty"`
	MRP                 float64  `json:"mrp,omitempty"`
	QuantityStock       int      `json:"quantityStock,omitempty"`
	Status              string   `json:"status,omitempty"`
	Images              []string `json:"images,omitempty"`
	ExchangeEligibility string   `json:"exchangeEligibility,omitempty"`
	CreatedBy           string   `json:"createdBy,omitempty"`
	CreatedAt           string   `json:"createdAt,omitempty"`
	UpdatedAt           string   `json:"updatedAt,omitempty"`
}

// Item status values accepted by the status endpoint.
const (
	ItemStatusActive   = "Active"
	ItemStatusInactive = "Inactive"
)

// ListItemsParams are the optional query parameters for GET /items.
// Zero values are omitted from the request.
type ListItemsParams struct {
	Search string // free-text search over name/brand
	Status string // filter by status (e.g. "Active")
	Type   string // filter by product type
	Page   int    // 1-based page number
	Limit  int    // page size
}

// statusUpdateRequest is the body of PATCH /items/{id}/status.
type statusUpdateRequest struct {
	Status string `json:"status"`
}
