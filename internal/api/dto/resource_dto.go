package dto

import "time"

// CreateResourceRequest payload for POST /resources.
type CreateResourceRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Subject     string `json:"subject" validate:"max=60"`
	FileType    string `json:"file_type" validate:"max=40"`
	FileName    string `json:"file_name" validate:"max=255"`
}

// ResourceResponse is a learning resource.
type ResourceResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	FileType    string    `json:"file_type"`
	FileName    string    `json:"file_name"`
	Views       int       `json:"views"`
	Downloads   int       `json:"downloads"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
