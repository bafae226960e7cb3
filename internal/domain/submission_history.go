package domain

import "time"

// SubmissionChangeType captures what changed in a history entry.
type SubmissionChangeType string

const (
	ChangeTypeStatus   SubmissionChangeType = "STATUS_CHANGE"
	ChangeTypeCategory SubmissionChangeType = "CATEGORY_CHANGE"
	ChangeTypeAgency   SubmissionChangeType = "AGENCY_CHANGE"
)

// SubmissionHistory is an immutable audit trail entry.
type SubmissionHistory struct {
	ID           string
	SubmissionID string
	ChangedBy    string
	ChangeType   SubmissionChangeType
	OldValue     string
	NewValue     string
	CreatedAt    time.Time
}
