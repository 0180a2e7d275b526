package main

import (
	"log"

	"secondhand/internal/adapter/api"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/pkg/config"
	"secondhand/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetDebug(cfg.IsDevelopment())

	catalog, err := mockdata.LoadFile(cfg.MockDataPath)
	if err != nil {
		log.Fatalf("Failed to load mock catalog: %v", err)
	}

	e, err := api.New(cfg, catalog)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	logger.Info("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
