package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sime65123/gym-project/internal/config"
	"github.com/sime65123/gym-project/internal/infra"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/router"
	"github.com/sime65123/gym-project/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// NewDatabase migrates the schema as part of opening the pool.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	if err := os.MkdirAll(cfg.PDFStoragePath, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.PDFStoragePath).Msg("failed to create pdf storage dir")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool has full
	// access to infrastructure: PDF rendering, SMTP, Redis queues.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	invoiceWorker := worker.NewInvoiceWorker(invoiceRepo, paymentRepo, dispatcher, cfg.PDFStoragePath)
	handlers := worker.Handlers{
		Invoice: invoiceWorker,
		Email:   worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	worker.StartInvoiceRetrySweep(ctx, worker.RetrySweepConfig{
		InvoiceRepo:   invoiceRepo,
		InvoiceWorker: invoiceWorker,
		Dispatcher:    dispatcher,
		RDB:           rdb,
	})

	// Nightly membership expiry
	cronRunner := worker.StartCron(ctx, membershipRepo)

	// The breaker wraps every CinetPay call so a gateway outage fails fast
	// instead of piling up blocked requests.
	gatewayCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	r := router.New(cfg, db, rdb, gatewayCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("GYMZONE backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cronRunner.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
