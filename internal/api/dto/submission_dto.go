package dto

import (
	"time"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// CreateSubmissionRequest payload. UserID defaults to the caller.
type CreateSubmissionRequest struct {
	UserID        string  `json:"userId"`
	CategoryID    string  `json:"categoryId"`
	AgencyID      string  `json:"agencyId"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Type          string  `json:"type"`
	Location      *string `json:"location"`
	AttachmentURL *string `json:"attachmentUrl"`
}

// UpdateSubmissionRequest carries only the fields to change.
type UpdateSubmissionRequest struct {
	CategoryID    *string `json:"categoryId"`
	AgencyID      *string `json:"agencyId"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Type          *string `json:"type"`
	Status        *string `json:"status"`
	Location      *string `json:"location"`
	AttachmentURL *string `json:"attachmentUrl"`
}

// SubmissionResponse representation.
type SubmissionResponse struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"userId"`
	CategoryID    string                  `json:"categoryId"`
	AgencyID      string                  `json:"agencyId"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Type          domain.SubmissionType   `json:"type"`
	Status        domain.SubmissionStatus `json:"status"`
	Location      *string                 `json:"location,omitempty"`
	AttachmentURL *string                 `json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// SubmissionDetailResponse adds the names of referenced records.
type SubmissionDetailResponse struct {
	SubmissionResponse
	CategoryName string `json:"categoryName"`
	AgencyName   string `json:"agencyName"`
	AuthorName   string `json:"authorName"`
}

// SubmissionThreadResponse nests the response thread.
type SubmissionThreadResponse struct {
	SubmissionResponse
	Responses []AdminResponseResponse `json:"responses"`
}

// SubmissionSummaryResponse is a lightweight list row.
type SubmissionSummaryResponse struct {
	ID         string                  `json:"id"`
	Title      string                  `json:"title"`
	Type       domain.SubmissionType   `json:"type"`
	Status     domain.SubmissionStatus `json:"status"`
	Settled    bool                    `json:"settled"`
	UserID     string                  `json:"userId"`
	AgencyID   string                  `json:"agencyId"`
	CategoryID string                  `json:"categoryId"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// HistoryResponse is one audit entry.
type HistoryResponse struct {
	ID         string                      `json:"id"`
	ChangedBy  string                      `json:"changedBy"`
	ChangeType domain.SubmissionChangeType `json:"changeType"`
	OldValue   string                      `json:"oldValue"`
	NewValue   string                      `json:"newValue"`
	CreatedAt  time.Time                   `json:"createdAt"`
}
