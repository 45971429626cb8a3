package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	dueAt, err := time.Parse(time.RFC3339Nano, payload.DueAt)
	if err != nil {
		return err
	}

	lead, err := w.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	// The follow-up may have been rescheduled or cleared after this task
	// was enqueued, and the lead may have been closed in the meantime.
	// Postgres stores microseconds, so compare at that resolution.
	if !lead.IsActive || lead.NextFollowUpAt == nil ||
		!lead.NextFollowUpAt.Truncate(time.Microsecond).Equal(dueAt.Truncate(time.Microsecond)) {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.FollowUpReminderDue{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		LeadName:  lead.Name,
		BOEID:     lead.AssignedBOEID,
		DueAt:     *lead.NextFollowUpAt,
	})

	return nil
}
