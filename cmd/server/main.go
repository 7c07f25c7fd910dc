package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/handler"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/server"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("life-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
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
