package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-life-keeper/internal/adapter"
	"github.com/MKhiriev/go-life-keeper/internal/client"
	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/internal/tui"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("life-client", cfg.App.LogPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	cfg.App.DeviceID, err = client.DeviceID(ctx, localStorage.KeyValue, cfg.App.DeviceID)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve device id")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}
	channel := adapter.NewDocumentChannel(serverAdapter, cfg.Adapter, log)

	services := service.NewClientServices(localStorage.KeyValue, serverAdapter, channel, cfg.Sync, utils.NewRealScheduler(), log)

	ui, err := tui.New(services, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, ui, cfg.Sync, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
		fmt.Fprintf(os.Stderr, "client stopped: %v\n", err)
	}
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
