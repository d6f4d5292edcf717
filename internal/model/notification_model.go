package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an ephemeral real-time message pushed to a user over the
// websocket hub. Nothing is persisted; a client that is offline misses it
// and falls back to polling the job status endpoint.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	UserName  string                 `json:"user_name"`
	TypeCode  string                 `json:"type_code"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
