package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/observability"
)

// ActivityService records domain events in the log and in metrics.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSubmissionCreated, a.handleSubmissionCreated)
	a.dispatcher.Subscribe(events.EventSubmissionStatusChanged, a.handleStatusChanged)
	a.dispatcher.Subscribe(events.EventSubmissionUpdated, a.handleSubmissionUpdated)
	a.dispatcher.Subscribe(events.EventResponseAdded, a.handleResponseAdded)
}

func (a *ActivityService) handleSubmissionCreated(_ context.Context, event events.Event) error {
	a.logger.Info("SubmissionCreated", zap.String("submission_id", event.SubmissionID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.SubmissionCreatedPayload); ok {
		a.metrics.SubmissionCreated(string(payload.Type))
	}
	return nil
}

func (a *ActivityService) handleStatusChanged(_ context.Context, event events.Event) error {
	a.logger.Info("SubmissionStatusChanged", zap.String("submission_id", event.SubmissionID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.SubmissionStatusChangedPayload); ok {
		a.metrics.StatusChanged(string(payload.NewStatus))
	}
	return nil
}

func (a *ActivityService) handleSubmissionUpdated(_ context.Context, event events.Event) error {
	a.logger.Debug("SubmissionUpdated", zap.String("submission_id", event.SubmissionID), zap.Any("payload", event.Payload))
	return nil
}

func (a *ActivityService) handleResponseAdded(_ context.Context, event events.Event) error {
	a.logger.Info("ResponseAdded", zap.String("submission_id", event.SubmissionID), zap.Any("payload", event.Payload))
	a.metrics.ResponseAdded()
	return nil
}
