package worker

import (
	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/service"
)

// StartEventWorkers registers the in-process event listeners. sink may be nil
// when no broker is configured.
func StartEventWorkers(dispatcher events.Dispatcher, activity *service.ActivityService, sink events.EventHandler) {
	if activity != nil {
		activity.RegisterHandlers()
	}
	if dispatcher != nil && sink != nil {
		events.SubscribeAll(dispatcher, sink)
	}
}
