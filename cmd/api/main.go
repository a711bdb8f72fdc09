package main

import (
	"context"
	"flag"
	"filmorate/proj/internal/api/tasks"
	"filmorate/proj/internal/config"
	"filmorate/proj/internal/events"
	"filmorate/proj/internal/events/rabbitmq"
	"filmorate/proj/internal/lib/logger"
	"filmorate/proj/internal/services"
	"filmorate/proj/internal/storage/memory"
	"filmorate/proj/internal/storage/postgres"
	pgmodels "filmorate/proj/internal/storage/postgres/models"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	// .env is optional, real environment variables win
	_ = godotenv.Load()
	defaultCfgPath := os.Getenv("CONFIG_PATH")
	if defaultCfgPath == "" {
		defaultCfgPath = "config/local.yml"
	}
	cfgPath := flag.String("config", defaultCfgPath, "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	if err := run(cfg, log); err != nil {
		log.Error("application stopped with error", "errMsg", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	bgTasks := tasks.New(log, cfg.Tasks.Workers, cfg.Tasks.QueueSize)
	bgTasks.Run()

	var publisher events.Publisher = events.NewLogPublisher(log)
	if cfg.Broker.Enabled {
		p, err := rabbitmq.New(log, cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			return fmt.Errorf("connecting to broker: %w", err)
		}
		defer p.Close()
		log.Info("broker connection established", "exchange", cfg.Broker.Exchange)
		publisher = p
	}
	dispatcher := events.NewDispatcher(log, publisher, bgTasks, cfg.Broker.PublishTimeout)

	var storage services.Storage
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.New(context.Background(), cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime, cfg.DB.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()
		log.Info("database connection established")
		storage = services.FromPostgres(pgmodels.New(db))
	default:
		log.Info("using in-memory storage")
		storage = services.FromMemory(memory.New())
	}

	app := NewApplication(cfg, log, services.New(log, cfg, storage, dispatcher), bgTasks)
	return app.serve()
}
