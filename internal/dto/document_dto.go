package dto

import "time"

type DocumentResponse struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DeleteDocumentRequest struct {
	Name string `json:"name" validate:"required"`
}
