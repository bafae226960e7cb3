package dto

import "time"

// CreateResponseRequest payload. ResponderID defaults to the caller.
type CreateResponseRequest struct {
	SubmissionID string `json:"submissionId"`
	ResponderID  string `json:"responderId"`
	Message      string `json:"message"`
}

// UpdateResponseRequest payload.
type UpdateResponseRequest struct {
	Message string `json:"message"`
}

// AdminResponseResponse representation.
type AdminResponseResponse struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submissionId"`
	ResponderID  string    `json:"responderId"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ResponseDetailResponse joins the submission and responder.
type ResponseDetailResponse struct {
	AdminResponseResponse
	Submission SubmissionDetailResponse `json:"submission"`
	Responder  UserResponse             `json:"responder"`
}
