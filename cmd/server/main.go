package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/broker"
	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/handler"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/payment"
	"github.com/MKhiriev/go-tool-keeper/internal/realtime"
	"github.com/MKhiriev/go-tool-keeper/internal/server"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewLogger("tool-keeper-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	repositories, err := store.NewRepositories(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating repositories")
	}

	changes, err := broker.New(cfg.Broker, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating change broker")
	}

	archiver, err := payment.NewArchiver(ctx, cfg.Payments.Archive, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating webhook archiver")
	}

	services := service.NewServices(repositories, service.Integrations{
		Broker:   changes,
		Gateway:  payment.NewGateway(cfg.Payments, log),
		Archiver: archiver,
	}, build, *cfg, log)

	hub := realtime.NewHub(log.WithComponent("realtime"))

	handlers, err := handler.NewHandlers(services, hub, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log,
		server.WithWorkers(realtime.NewRelay(hub, changes, log)),
		server.WithClosers(changes, repositories),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
