package models

// Envelope wraps every response body with the region the service runs in
// swagger:model Envelope
type Envelope struct {
	// Deployment region
	// example: eu-west-1
	Region string `json:"region"`

	// Success payload or {"error": message}
	Data any `json:"data"`
}

// ErrorResponse represents an error payload inside the envelope
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// example: Internal server error
	Error string `json:"error"`
}
