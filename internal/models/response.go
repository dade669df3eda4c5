package models

// HealthResponse represents the health check response. Connected is true
// when every enabled platform is connected.
type HealthResponse struct {
	Status    string                    `json:"status"`
	Connected bool                      `json:"connected"`
	Platforms map[string]PlatformStatus `json:"platforms,omitempty"`
	Timestamp int64                     `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
