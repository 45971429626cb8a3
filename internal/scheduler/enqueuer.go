package scheduler

import (
	"context"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/platform/logger"
)

// Enqueuer bridges the in-process event bus to the asynq queue. It listens
// for scheduled follow-ups and enqueues a reminder task to fire at the due
// time.
type Enqueuer struct {
	scheduler ReminderScheduler
	log       *logger.Logger
}

func NewEnqueuer(bus events.Bus, scheduler ReminderScheduler, log *logger.Logger) *Enqueuer {
	e := &Enqueuer{scheduler: scheduler, log: log}
	bus.Subscribe(events.FollowUpScheduled{}.EventName(), events.HandlerFunc(e.onFollowUpScheduled))
	return e
}

func (e *Enqueuer) onFollowUpScheduled(ctx context.Context, event events.Event) error {
	evt, ok := event.(events.FollowUpScheduled)
	if !ok {
		return nil
	}

	payload := FollowUpReminderPayload{
		LeadID: evt.LeadID.String(),
		DueAt:  evt.DueAt.UTC().Format(time.RFC3339Nano),
	}

	if err := e.scheduler.ScheduleFollowUpReminder(ctx, payload, evt.DueAt); err != nil {
		e.log.Error("failed to schedule follow-up reminder", "leadId", evt.LeadID, "error", err)
		return err
	}

	return nil
}
