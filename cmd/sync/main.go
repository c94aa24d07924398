package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/config"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/service"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/internal/workers"
	"github.com/MKhiriev/go-ads-sync/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-ads-sync")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	db, err := store.Connect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to replica database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB, cfg.Storage.DB.Driver); err != nil {
		log.Fatal().Err(err).Msg("error migrating replica schema")
	}

	storages := store.NewStorages(db, log)

	api, err := adapter.NewHTTPPlatformAPI(cfg.Platform, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating platform adapter")
	}

	services := service.NewServices(cfg, storages, api, log)

	// zero interval means a one-shot run, useful for cron and for smoke tests
	if cfg.Workers.SyncInterval == 0 {
		if err = services.Engine.SyncAll(ctx); err != nil {
			log.Fatal().Err(err).Msg("one-shot sync failed")
		}
		return
	}

	background := workers.NewWorkers(services, cfg.Workers, log)
	background.Run(ctx)

	<-ctx.Done()
	background.Stop()
	log.Info().Msg("sync shut down gracefully")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
