package backend

import (
	"context"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/ledger"
)

// Backend bundles every ledger port the HTTP layer and the reporting
// pipeline need from a single store.
type Backend interface {
	ledger.TransactionLister
	ledger.TransactionWriter
	ledger.AttendanceLister
	ledger.AttendanceWriter
	ledger.BudgetLister
	ledger.BudgetUpserter
	ledger.CategoryReader
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific
	DataDirectory string

	// Cache prefix for report invalidation, usually the tenant name.
	Tenant string
}

// BackendType selects the source-of-truth store. The Google Sheets
// mirror is not a backend; it only receives copies via the worker.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
