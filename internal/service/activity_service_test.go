package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/observability"
)

func TestActivityService_LogsAndCounts(t *testing.T) {
	// Arrange
	core, logs := observer.New(zap.InfoLevel)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewActivityService(dispatcher, zap.New(core), metrics).RegisterHandlers()
	submission := &domain.Submission{ID: "sub-1", AgencyID: "agency-1"}
	actor := events.Actor{UserID: "user-1", Role: domain.RoleCitizen}
	ctx := context.Background()

	// Act
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventSubmissionCreated, submission, actor,
		events.SubmissionCreatedPayload{Type: domain.SubmissionTypeComplaint, Status: domain.StatusOpen})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventSubmissionStatusChanged, submission, actor,
		events.SubmissionStatusChangedPayload{OldStatus: domain.StatusOpen, NewStatus: domain.StatusResolved, Settled: true})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventResponseAdded, submission, actor,
		events.ResponseAddedPayload{ResponseID: "resp-1"})))

	// Assert
	assert.Equal(t, 1, logs.FilterMessage("SubmissionCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("SubmissionStatusChanged").Len())
	assert.Equal(t, 1, logs.FilterMessage("ResponseAdded").Len())

	count, err := testutil.GatherAndCount(metrics.Gatherer(),
		"submissions_created_total", "submission_status_changes_total", "admin_responses_created_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
