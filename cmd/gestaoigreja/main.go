package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/backend"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/cache"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/cli"
	apphttp "github.com/edukadoshmda-ops/gestaoigreja/internal/http"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// One cache instance shared by the report service and the write path,
	// so recording a transaction invalidates the tenant's cached series.
	reportCache := cache.NewLRUCache[services.MonthlySeriesResult](cfg.CacheSize, cfg.CacheTTL)

	cacheManager := cache.NewManager()
	cacheManager.Register(reportCache)
	cacheManager.StartCleanup(cfg.CacheTTL)

	factory := backend.NewFactory(logger, reportCache)
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	reports := services.NewReportService(
		result.Backend, result.Backend, result.Backend,
		reportCache, cfg.TenantID, logger)

	srv := apphttp.NewServer(":"+cfg.Port, result.Backend, reports, apphttp.Options{
		ChurchName:          cfg.ChurchName,
		ChurchCNPJ:          cfg.ChurchCNPJ,
		OpeningBalanceCents: cfg.OpeningBalanceCents,
		RateLimitPerMinute:  cfg.RateLimitPerMinute,
	})
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
		cancel()
	}()

	logger.Info("Starting gestaoigreja server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"tenant", cfg.TenantID)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
