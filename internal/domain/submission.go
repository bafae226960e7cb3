package domain

import (
	"strings"
	"time"
)

// SubmissionType classifies what a citizen raised.
type SubmissionType string

const (
	SubmissionTypeComplaint  SubmissionType = "COMPLAINT"
	SubmissionTypeFeedback   SubmissionType = "FEEDBACK"
	SubmissionTypeSuggestion SubmissionType = "SUGGESTION"
)

// ParseSubmissionType normalizes raw case-insensitively. Empty input yields COMPLAINT.
func ParseSubmissionType(raw string) (SubmissionType, bool) {
	normalized := SubmissionType(strings.ToUpper(strings.TrimSpace(raw)))
	switch normalized {
	case "":
		return SubmissionTypeComplaint, true
	case SubmissionTypeComplaint, SubmissionTypeFeedback, SubmissionTypeSuggestion:
		return normalized, true
	}
	return "", false
}

// Submission is the aggregate root for complaints, feedback and suggestions.
type Submission struct {
	ID            string
	UserID        string
	CategoryID    string
	AgencyID      string
	Title         string
	Description   string
	Type          SubmissionType
	Status        SubmissionStatus
	Location      *string
	AttachmentURL *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
