package models

// DecodeTokenRequest represents the JSON body for token validation
// swagger:model DecodeTokenRequest
type DecodeTokenRequest struct {
	// JWT token to validate
	// required: true
	// example: JWT_TOKEN
	Token string `json:"token"`
}

// DecodeTokenResponse represents a successfully decoded token
// swagger:model DecodeTokenResponse
type DecodeTokenResponse struct {
	// Success message
	// example: Successfully validated token.
	Status string `json:"status"`

	// User ID embedded in the token
	// example: 9f4c2b36-5f0e-4f0d-93a1-1a2b3c4d5e6f
	UserID string `json:"user_id"`

	// Email embedded in the token
	// example: john@example.com
	Email string `json:"email"`

	// Issued-at unix timestamp
	// example: 1700000000
	IssuedAt int64 `json:"iat"`

	// Expiry unix timestamp
	// example: 1700000060
	ExpiresAt int64 `json:"exp"`
}
