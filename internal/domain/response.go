package domain

import "time"

// AdminResponse is a staff or admin message attached to a submission.
type AdminResponse struct {
	ID           string
	SubmissionID string
	ResponderID  string
	Message      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
