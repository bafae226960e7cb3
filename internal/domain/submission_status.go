package domain

import (
	"strings"
	"sync"
)

// SubmissionStatus tracks workflow progress of a submission.
type SubmissionStatus string

const (
	StatusSubmitted        SubmissionStatus = "SUBMITTED"
	StatusOpen             SubmissionStatus = "OPEN"
	StatusUnderReview      SubmissionStatus = "UNDER_REVIEW"
	StatusAssigned         SubmissionStatus = "ASSIGNED"
	StatusInProgress       SubmissionStatus = "IN_PROGRESS"
	StatusRequiresMoreInfo SubmissionStatus = "REQUIRES_MORE_INFO"
	StatusResolved         SubmissionStatus = "RESOLVED"
	StatusClosed           SubmissionStatus = "CLOSED"
)

var statusRegistry = struct {
	sync.RWMutex
	known map[SubmissionStatus]struct{}
}{
	known: map[SubmissionStatus]struct{}{
		StatusSubmitted:        {},
		StatusOpen:             {},
		StatusUnderReview:      {},
		StatusAssigned:         {},
		StatusInProgress:       {},
		StatusRequiresMoreInfo: {},
		StatusResolved:         {},
		StatusClosed:           {},
	},
}

// RegisterStatus adds a status value to the accepted vocabulary.
func RegisterStatus(status SubmissionStatus) {
	status = SubmissionStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if status == "" {
		return
	}
	statusRegistry.Lock()
	defer statusRegistry.Unlock()
	statusRegistry.known[status] = struct{}{}
}

// ParseStatus normalizes raw and reports whether it is a registered status.
func ParseStatus(raw string) (SubmissionStatus, bool) {
	status := SubmissionStatus(strings.ToUpper(strings.TrimSpace(raw)))
	statusRegistry.RLock()
	defer statusRegistry.RUnlock()
	_, ok := statusRegistry.known[status]
	return status, ok
}

// IsSettled reports whether the status counts as finished for reporting.
func (s SubmissionStatus) IsSettled() bool {
	return s == StatusResolved || s == StatusClosed
}

// TransitionPolicy decides whether a submission may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to SubmissionStatus) bool
}

// PermissiveTransitions allows any registered status to follow any other.
type PermissiveTransitions struct{}

// Allow always permits the change.
func (PermissiveTransitions) Allow(_, _ SubmissionStatus) bool {
	return true
}

// TransitionTable is an explicit graph of permitted status changes. Setting the
// current status again is always allowed.
type TransitionTable map[SubmissionStatus][]SubmissionStatus

// Allow reports whether to is listed as a successor of from.
func (t TransitionTable) Allow(from, to SubmissionStatus) bool {
	if from == to {
		return true
	}
	for _, candidate := range t[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// DefaultTransitionTable returns the strict workflow used when the permissive
// policy is disabled.
func DefaultTransitionTable() TransitionTable {
	return TransitionTable{
		StatusSubmitted:        {StatusOpen, StatusUnderReview, StatusClosed},
		StatusOpen:             {StatusUnderReview, StatusAssigned, StatusInProgress, StatusClosed},
		StatusUnderReview:      {StatusAssigned, StatusInProgress, StatusRequiresMoreInfo, StatusResolved, StatusClosed},
		StatusAssigned:         {StatusInProgress, StatusRequiresMoreInfo, StatusResolved},
		StatusInProgress:       {StatusRequiresMoreInfo, StatusResolved, StatusClosed},
		StatusRequiresMoreInfo: {StatusUnderReview, StatusInProgress, StatusClosed},
		StatusResolved:         {StatusClosed, StatusInProgress},
		StatusClosed:           {},
	}
}
