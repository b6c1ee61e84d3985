package worker

// cron.go — scheduled jobs that run on wall-clock time rather than queue
// activity. Currently a nightly sweep deactivating expired memberships.

import (
	"context"
	"time"

	"github.com/sime65123/gym-project/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StartCron schedules the nightly membership expiry sweep and returns the
// running scheduler so the caller can Stop() it on shutdown.
func StartCron(ctx context.Context, membershipRepo repository.MembershipRepository) *cron.Cron {
	c := cron.New()

	// Every day at 02:00 — low-traffic window.
	_, err := c.AddFunc("0 2 * * *", func() {
		expireMemberships(ctx, membershipRepo)
	})
	if err != nil {
		log.Error().Err(err).Msg("cron: failed to schedule membership expiry")
	}

	c.Start()
	log.Info().Msg("cron: scheduler started")
	return c
}

func expireMemberships(ctx context.Context, repo repository.MembershipRepository) {
	n, err := repo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("cron: membership expiry sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("cron: memberships deactivated")
	}
}
