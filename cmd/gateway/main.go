package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/audit"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/config"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/convert"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/gateway"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/httpapi"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/logger"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/rules"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/tracker"
)

const shutdownGrace = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "imps-gateway").Logger()

	store, err := tracker.NewBadgerStore(cfg.Store.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open transaction store")
	}

	track, err := tracker.New(store, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise tracker")
	}

	conv, err := convert.New(convert.Config{
		BPC:        cfg.Bank.ParticipationCode,
		OrgID:      cfg.Bank.OrgID,
		TerminalID: cfg.Bank.TerminalID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise converter")
	}

	npciSender, err := gateway.NewHTTPSender(gateway.HTTPSenderConfig{
		BaseURL:     cfg.Counterparts.NPCIBaseURL,
		ContentType: "application/xml",
		Timeout:     cfg.Counterparts.SendTimeout,
		MaxInflight: cfg.Counterparts.MaxInflight,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise npci sender")
	}
	switchSender, err := gateway.NewHTTPSender(gateway.HTTPSenderConfig{
		BaseURL:     cfg.Counterparts.SwitchBaseURL,
		ContentType: "application/octet-stream",
		Timeout:     cfg.Counterparts.SendTimeout,
		MaxInflight: cfg.Counterparts.MaxInflight,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise switch sender")
	}

	pool, err := gateway.NewPool(cfg.Workers.PoolSize, cfg.Workers.QueueDepth, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise worker pool")
	}

	var auditPub audit.Publisher = audit.NopPublisher{}
	if cfg.Audit.Enabled() {
		kafkaPub, err := audit.NewKafkaPublisher(cfg.Audit.Brokers, cfg.Audit.Topic, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialise audit publisher")
		}
		auditPub = kafkaPub
		log.Info().Str("topic", cfg.Audit.Topic).Msg("audit publishing enabled")
	}

	engine, err := gateway.NewEngine(gateway.Dependencies{
		Rules:        rules.NewEngine(log),
		Converter:    conv,
		Tracker:      track,
		NPCISender:   npciSender,
		SwitchSender: switchSender,
		Pool:         pool,
		Audit:        auditPub,
		Logger:       log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise gateway engine")
	}

	server, err := httpapi.New(fmt.Sprintf(":%d", cfg.App.Port), engine, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise http server")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info().Int("port", cfg.App.Port).Msg("imps gateway started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server terminated with error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var result *multierror.Error
	if err := server.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}
	pool.Shutdown()
	if err := auditPub.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := store.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		log.Error().Err(err).Msg("shutdown completed with errors")
		return
	}
	log.Info().Msg("shutdown complete")
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("imps gateway init failed")
}
