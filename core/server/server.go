package server

import (
	"context"
	"fmt"

	"recruitsync/core/cache"
	"recruitsync/core/config"
	"recruitsync/core/database"
	"recruitsync/core/logger"
	"recruitsync/core/middleware"
	"recruitsync/core/storage"
	"recruitsync/jobs"
	"recruitsync/modules/importer"
	"recruitsync/modules/provider"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run boots the whole service: config, storage, HTTP surface, task queue
// worker and cron scheduler. Blocks until the HTTP listener stops.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	c, err := cache.InitCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	archive, err := storage.NewArchive(context.Background(), cfg.Archive)
	if err != nil {
		return fmt.Errorf("init payload archive: %w", err)
	}

	queue := asynq.NewClient(jobs.RedisOpt(cfg.Redis))
	defer queue.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	mw := middleware.NewMiddleware()
	e.Use(mw.RequestID())

	provider.Init(&db)
	orchestrator := importer.Init(e, &db, c, archive, queue)

	// Queue worker and cron scheduler run alongside the HTTP listener.
	worker := asynq.NewServer(jobs.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: cfg.Import.WorkerPoolSize,
	})
	mux := jobs.NewMux(jobs.NewImportTaskHandler(orchestrator))
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:Run:Worker:Error", "error", err)
		}
	}()

	scheduler, err := jobs.NewScheduler(cfg)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Server:Run:Scheduler:Error", "error", err)
		}
	}()

	logger.Info("Server:Run:Listening", "port", cfg.Server.Port)
	return e.Start(fmt.Sprintf(":%d", cfg.Server.Port))
}
