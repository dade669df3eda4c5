package models

// RoleplayRequest is the body of POST /roleplay
type RoleplayRequest struct {
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

// ReplyResponse carries the text the bot would have replied with
type ReplyResponse struct {
	Reply     string `json:"reply"`
	Route     string `json:"route"`
	Fallback  bool   `json:"fallback"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// PlatformStatus reports the connection state of one chat platform
type PlatformStatus struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	Identity  string `json:"identity,omitempty"`
}
