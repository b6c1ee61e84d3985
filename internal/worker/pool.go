package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueInvoice = "jobs:invoice"
	QueueEmail   = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueInvoice pushes a PDF render job to Redis. Nil-safe so services can
// run without a dispatcher in unit tests.
func (d *Dispatcher) EnqueueInvoice(ctx context.Context, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueInvoice, "invoice", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers holds the per-queue job processors.
type Handlers struct {
	Invoice *InvoiceWorker
	Email   *EmailWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers Handlers) {
	queues := []string{QueueInvoice, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueueInvoice:
		if handlers.Invoice != nil {
			handlers.Invoice.Process(ctx, job.Payload)
		}
	case QueueEmail:
		if handlers.Email != nil {
			handlers.Email.Process(ctx, job.Payload)
		}
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue")
	}
}
