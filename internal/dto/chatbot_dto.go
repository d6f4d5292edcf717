package dto

import (
	"time"

	"contextual-chatbot-be/pkg/store"
)

type SendChatRequest struct {
	Chat string `json:"chat" validate:"required"`
}

type SendChatResponse struct {
	Reply     string           `json:"reply"`
	Citations []store.Citation `json:"citations,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type ChatHistoryEntry struct {
	Role      string           `json:"role"`
	Chat      string           `json:"chat"`
	Citations []store.Citation `json:"citations,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
