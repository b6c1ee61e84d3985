package worker

// invoice_retry.go — background goroutine that re-attempts failed PDF renders
// and repairs PAID payments that never received an invoice row (for example
// when the process died between the payment commit and the enqueue).

import (
	"context"
	"fmt"
	"time"

	"github.com/sime65123/gym-project/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 60 * time.Second
	retryBatchSize    = 10
)

// RetrySweepConfig holds all dependencies for the sweep goroutine.
type RetrySweepConfig struct {
	InvoiceRepo   repository.InvoiceRepository
	InvoiceWorker *InvoiceWorker
	Dispatcher    *Dispatcher
	RDB           *redis.Client
}

// StartInvoiceRetrySweep launches a goroutine that ticks every minute,
// re-renders invoices whose backoff has elapsed, and backfills missing
// invoice rows. Respects the context for graceful shutdown.
func StartInvoiceRetrySweep(ctx context.Context, cfg RetrySweepConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("invoice_retry: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("invoice_retry: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
				repairMissingInvoices(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetrySweepConfig) {
	now := time.Now()
	pending, err := cfg.InvoiceRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("invoice_retry: failed to query pending retries")
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Info().Int("count", len(pending)).Msg("invoice_retry: re-rendering failed invoices")

	for i := range pending {
		inv := &pending[i]

		if _, err := cfg.InvoiceWorker.Render(ctx, inv); err != nil {
			inv.RetryCount++
			errMsg := err.Error()
			inv.LastError = &errMsg

			if inv.RetryCount >= MaxInvoiceRetries {
				inv.NextRetryAt = nil
				_ = cfg.InvoiceRepo.Update(ctx, inv)

				payload := fmt.Sprintf(`{"invoice_id":"%s","payment_id":"%s"}`, inv.ID, inv.PaymentID)
				SendToDLQ(ctx, cfg.RDB, QueueInvoice, "invoice", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxInvoiceRetries, errMsg),
					inv.RetryCount)
				continue
			}

			next := time.Now().Add(computeRetryBackoff(inv.RetryCount))
			inv.NextRetryAt = &next
			_ = cfg.InvoiceRepo.Update(ctx, inv)
			log.Warn().
				Str("invoice_id", inv.ID.String()).
				Int("retry_count", inv.RetryCount).
				Msg("invoice_retry: render failed again, rescheduled")
			continue
		}

		log.Info().
			Str("invoice_id", inv.ID.String()).
			Int("total_retries", inv.RetryCount).
			Msg("invoice_retry: PDF rendered after retry")
	}
}

func repairMissingInvoices(ctx context.Context, cfg RetrySweepConfig) {
	orphans, err := cfg.InvoiceRepo.ListPaidWithoutInvoice(ctx, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("invoice_retry: failed to query orphan payments")
		return
	}

	for i := range orphans {
		p := &orphans[i]

		kind := "SESSION"
		if p.PlanID != nil {
			kind = "PLAN"
		}
		inv, created, err := cfg.InvoiceRepo.GetOrCreate(ctx, p.ID, kind)
		if err != nil {
			log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("invoice_retry: get-or-create failed")
			continue
		}
		if created {
			log.Info().Str("payment_id", p.ID.String()).Msg("invoice_retry: backfilled missing invoice")
		}
		job := InvoiceJobPayload{InvoiceID: inv.ID.String()}
		if err := cfg.Dispatcher.EnqueueInvoice(ctx, job); err != nil {
			log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("invoice_retry: enqueue failed")
		}
	}
}
