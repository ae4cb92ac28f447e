package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/adapters"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/amqp"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/cache"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/ledger/memory"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/services"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/storage"
)

// DefaultFactory implements the Factory interface. The report cache is
// shared with the report service so writes can invalidate cached series.
type DefaultFactory struct {
	logger      *slog.Logger
	reportCache *cache.LRUCache[services.MonthlySeriesResult]
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger, reportCache *cache.LRUCache[services.MonthlySeriesResult]) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger:      logger,
		reportCache: reportCache,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	// Initialize SQLite repository
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// Initialize AMQP client (optional)
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without mirror events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	// Create ledger service and adapter
	ledgerService := services.NewLedgerService(sqliteRepo, sqliteRepo, sqliteRepo,
		amqpClient, f.reportCache, config.Tenant+":")
	adapter := adapters.NewSQLiteAdapter(sqliteRepo, ledgerService)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	cleanup := func() error {
		if err := ledgerService.Close(); err != nil {
			return err
		}
		return sqliteRepo.Close()
	}

	return &BackendResult{
		Backend: adapter,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data" // Default directory
	}

	store := memory.NewFromFiles(dataDir)
	ledgerService := services.NewLedgerService(store, store, store,
		nil, f.reportCache, config.Tenant+":")
	adapter := adapters.NewMemoryAdapter(store, ledgerService)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &BackendResult{
		Backend: adapter,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
