package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-rental/internal/database"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/tasks"
	"github.com/hugh/go-rental/pkg/config"
	"github.com/hugh/go-rental/pkg/crypto"
	"github.com/hugh/go-rental/pkg/queue"
	"github.com/hugh/go-rental/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	if err := util.ValidateCronExpr(cfg.Worker.ReceiptCron); err != nil {
		logger.Error("invalid WORKER_RECEIPT_CRON", "error", err)
		os.Exit(1)
	}

	logger.Info("starting go-rental worker", "receipt_cron", cfg.Worker.ReceiptCron)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Owner documents are sealed with the same key the API uses.
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}

	rentalService := rental.NewService(db, quota.NewGuard(db), encryptor, logger)

	srv := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency)
	client := queue.NewClient(&cfg.Redis)
	defer client.Close()

	handler := tasks.NewHandler(rentalService, logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	scheduler := util.NewScheduler(logger)
	if _, err := scheduler.AddFunc(cfg.Worker.ReceiptCron, func() {
		enqueueCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		info, err := tasks.Enqueue(enqueueCtx, client, time.Now())
		switch {
		case err != nil:
			logger.Error("failed to enqueue monthly receipts", "error", err)
		case info == nil:
			logger.Info("monthly receipts already queued")
		default:
			logger.Info("monthly receipts enqueued", "task_id", info.ID)
		}
	}); err != nil {
		logger.Error("failed to schedule monthly receipts", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	if next, err := util.NextCronTime(cfg.Worker.ReceiptCron, time.Now()); err == nil {
		logger.Info("next receipt run", "at", next)
	}

	if err := srv.Start(mux); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}
	logger.Info("worker started, waiting for tasks...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...")
	<-scheduler.Stop().Done()
	srv.Shutdown()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
