package push

import (
	"context"

	"github.com/rs/zerolog"
)

// Job is one pending notify-all-devices-for-a-user request.
type Job struct {
	UserID string
	Title  string
	Body   string
	URL    string
}

// Enqueuer is what event producers hold: a place to hand delivery work off to
// after their own write has committed.
type Enqueuer interface {
	Enqueue(job Job) bool
}

// Queue decouples event producers from push delivery. Producers enqueue
// without blocking and move on; a background worker drains the channel and
// runs the dispatcher. A full queue drops the job with a log line; push is
// best effort end to end, so losing a job can never fail the producer.
type Queue struct {
	jobs       chan Job
	dispatcher *Dispatcher
	logger     zerolog.Logger
}

func NewQueue(dispatcher *Dispatcher, buffer int, logger zerolog.Logger) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	return &Queue{
		jobs:       make(chan Job, buffer),
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "push_queue").Logger(),
	}
}

// Enqueue hands a job to the worker. It never blocks; the return value only
// says whether the job was accepted.
func (q *Queue) Enqueue(job Job) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		q.logger.Warn().
			Str("user_id", job.UserID).
			Msg("push queue full, dropping job")
		return false
	}
}

// Run drains the queue until ctx is canceled. Dispatch errors are logged and
// the worker keeps going.
func (q *Queue) Run(ctx context.Context) {
	q.logger.Info().Msg("push queue worker started")
	for {
		select {
		case <-ctx.Done():
			q.logger.Info().Msg("push queue worker stopped")
			return
		case job := <-q.jobs:
			if _, err := q.dispatcher.Dispatch(ctx, job.UserID, job.Title, job.Body, job.URL); err != nil {
				q.logger.Error().
					Err(err).
					Str("user_id", job.UserID).
					Msg("dispatch failed")
			}
		}
	}
}
