package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/amqp"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/cli"
	gsheet "github.com/edukadoshmda-ops/gestaoigreja/internal/sheets/google"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting report-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Spreadsheet mirror is optional; without it the worker only idles.
	var sheetsClient *gsheet.Client
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		sheetsClient, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mirrorWorker *worker.MirrorWorker
	if sheetsClient != nil {
		mirrorWorker = worker.NewMirrorWorker(sqliteRepo, sheetsClient, cfg.SyncBatchSize)

		// Recover anything that was recorded while the worker was down.
		logger.Info("Performing startup mirror check...")
		if err := mirrorWorker.StartupSyncCheck(ctx); err != nil {
			logger.Error("Failed startup mirror check", "error", err)
			// Don't exit - continue with normal operation
		}
	} else {
		logger.Info("Skipping mirror operations - no client available")
	}

	if mirrorWorker != nil {
		go func() {
			handler := func(msg *amqp.TransactionRecordedMessage) error {
				return mirrorWorker.HandleRecordedMessage(ctx, msg)
			}
			if err := amqpClient.ConsumeTransactionRecorded(ctx, handler); err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", "error", err)
				}
				cancel()
			}
		}()

		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := mirrorWorker.ProcessPendingTransactions(ctx); err != nil {
						logger.Error("Periodic mirror sweep failed", "error", err)
					}
				}
			}
		}()
	} else {
		logger.Info("Skipping AMQP message consumption - no mirror worker available")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
