// Package main is the entry point for the floorplan-markup API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"floorplan-markup/adapters/storage"
	"floorplan-markup/api"
	"floorplan-markup/internal/config"
	"floorplan-markup/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	listen := flag.String("listen", "", "listen address override")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	repo, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		logging.Logger.Fatal("open drawings database", zap.Error(err))
	}
	defer repo.Close()

	server := api.NewServer(api.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		Version:      version,
	}, repo)

	addr := cfg.Server.Listen
	if *listen != "" {
		addr = *listen
	}
	logging.Info("starting API server", zap.String("addr", addr))
	if err := server.Listen(addr); err != nil {
		logging.Logger.Fatal("server stopped", zap.Error(err))
	}
}
