package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mpivetta/cardflow/internal/api"
	"github.com/mpivetta/cardflow/internal/config"
	"github.com/mpivetta/cardflow/internal/db"
	"github.com/mpivetta/cardflow/internal/logger"
	"github.com/mpivetta/cardflow/internal/repository/sqlite"
	"github.com/mpivetta/cardflow/internal/services"
	"github.com/mpivetta/cardflow/internal/srs"
	"github.com/mpivetta/cardflow/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("cardflow server starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("clock_scale=%s", cfg.ClockScale)
	log.Debug("autosave_interval_secs=%d", cfg.AutosaveIntervalSecs)
	log.Debug("flush_worker_count=%d", cfg.FlushWorkerCount)
	log.Debug("flush_queue_size=%d", cfg.FlushQueueSize)
	log.Debug("tx_max_retries=%d", cfg.TxMaxRetries)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	schedulingRepo := sqlite.NewSchedulingRepository(database, cfg.DueQueryLimit)
	studyRepo := sqlite.NewStudyRepository(database, cfg.TxMaxRetries)

	studyService := services.NewStudyService(studyRepo)
	reviewService := services.NewReviewService(schedulingRepo, studyService, srs.ScaleByName(cfg.ClockScale))

	flushPool := worker.NewPool(cfg.FlushWorkerCount, cfg.FlushQueueSize)

	srv := &api.Server{
		Reviews: reviewService,
		Study:   studyService,
		DB:      database,
	}

	ctx, cancel := context.WithCancel(context.Background())
	flushPool.Start(ctx)

	// Periodic autosave of accumulated study time. Best effort: a crash
	// loses at most one interval of minutes.
	cron := gocron.NewScheduler(time.Local)
	if _, err := cron.Every(cfg.AutosaveIntervalSecs).Seconds().Do(func() {
		flushPool.Submit(&worker.FlushStudyTimeJob{Study: studyService})
	}); err != nil {
		log.Error("failed to schedule autosave flush: %v", err)
		os.Exit(1)
	}
	cron.StartAsync()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping autosave scheduler")
	cron.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// One last flush so buffered study minutes survive the restart.
	if err := studyService.FlushStudyTime(shutdownCtx); err != nil {
		log.Warn("final study-time flush failed: %v", err)
	}

	cancel()
	flushPool.Stop()

	log.Info("===========================================")
	log.Info("cardflow server stopped")
	log.Info("===========================================")
}
