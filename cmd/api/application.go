package main

import (
	"filmorate/proj/internal/api/tasks"
	"filmorate/proj/internal/config"
	"filmorate/proj/internal/lib/decoder"
	"filmorate/proj/internal/lib/metrics"
	"filmorate/proj/internal/lib/validator"
	"filmorate/proj/internal/services"
	"log/slog"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	validator *govalidator.Validate
	decoder   *decoder.URLDecoder
	metrics   *metrics.Metrics
	bgTasks   *tasks.BackgroundTasks
}

func NewApplication(cfg *config.Config, log *slog.Logger, svcs *services.Services, bgTasks *tasks.BackgroundTasks) *Application {
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: validator.New(),
		decoder:   decoder.New(),
		services:  svcs,
		bgTasks:   bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	if cfg.Metrics.Enabled {
		app.metrics = metrics.New()
	}
	return app
}
