package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated       EventType = "submission_created"
	EventSubmissionStatusChanged EventType = "submission_status_changed"
	EventSubmissionUpdated       EventType = "submission_updated"
	EventResponseAdded           EventType = "response_added"
)

// AllTypes lists every event type in publication order.
func AllTypes() []EventType {
	return []EventType{
		EventSubmissionCreated,
		EventSubmissionStatusChanged,
		EventSubmissionUpdated,
		EventResponseAdded,
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"userId"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	SubmissionID string      `json:"submissionId"`
	AgencyID     string      `json:"agencyId"`
	Actor        Actor       `json:"actor"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, submission *domain.Submission, actor Actor, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		SubmissionID: submission.ID,
		AgencyID:     submission.AgencyID,
		Actor:        actor,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}

// SubmissionCreatedPayload payload.
type SubmissionCreatedPayload struct {
	UserID     string                  `json:"userId"`
	CategoryID string                  `json:"categoryId"`
	Type       domain.SubmissionType   `json:"type"`
	Status     domain.SubmissionStatus `json:"status"`
	Title      string                  `json:"title"`
}

// SubmissionStatusChangedPayload payload.
type SubmissionStatusChangedPayload struct {
	OldStatus domain.SubmissionStatus `json:"oldStatus"`
	NewStatus domain.SubmissionStatus `json:"newStatus"`
	Settled   bool                    `json:"settled"`
}

// SubmissionUpdatedPayload lists the fields an update changed.
type SubmissionUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// ResponseAddedPayload payload.
type ResponseAddedPayload struct {
	ResponseID     string `json:"responseId"`
	ResponderID    string `json:"responderId"`
	MessagePreview string `json:"messagePreview"`
}
