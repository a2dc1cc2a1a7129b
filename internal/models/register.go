package models

// CreateUserRequest represents the JSON body for user creation
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Username
	// required: true
	// example: john_doe
	Username string `json:"username"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// CreateUserResponse represents a successful user creation response
// swagger:model CreateUserResponse
type CreateUserResponse struct {
	// Success message
	// example: Successfully created user!
	Status string `json:"status"`

	// JWT token issued for the new user
	// example: JWT_TOKEN
	Token string `json:"token"`
}
