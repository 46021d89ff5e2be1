package main

import (
	"flag"
	"os"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/osezele/circulata/config"
	"github.com/osezele/circulata/data"
	_ "github.com/osezele/circulata/docs"
	"github.com/osezele/circulata/handler"
	"github.com/osezele/circulata/internal/jsonlog"
	"github.com/osezele/circulata/repository"
	"github.com/osezele/circulata/repository/postgres"
	"github.com/osezele/circulata/service"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	handler *handler.Handler
}

// @title Circulata API
// @version 1.0.0
// @description Lending and reservation lifecycle API for a library service.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to a yaml config file (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// In-memory cache for lending detail views
	cache := ttlcache.New(ttlcache.WithTTL[int64, *data.LendingView](30 * time.Second))
	go cache.Start()

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, logger, repo)
	handler := handler.New(cfg, logger, cache, service)

	app := &app{
		config:  cfg,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
