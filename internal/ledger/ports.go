// Package ledger defines the ports to the source-of-truth store. The
// engine only reads snapshots through these interfaces; persistence is the
// adapter's concern.
package ledger

import (
	"context"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// Ports for outbound adapters.
type (
	TransactionLister interface {
		// ListTransactions returns the snapshot of transactions with
		// rangeStart <= date <= rangeEnd, already scoped to the tenant.
		ListTransactions(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (id int64, err error)
	}

	AttendanceLister interface {
		ListAttendanceReports(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.AttendanceReport, error)
	}

	AttendanceWriter interface {
		AppendAttendanceReport(ctx context.Context, rep core.AttendanceReport) (id int64, err error)
	}

	BudgetLister interface {
		ListBudgetsForMonth(ctx context.Context, monthKey string) ([]core.BudgetTarget, error)
	}

	// BudgetUpserter writes one target per (category, monthKey); last
	// write wins.
	BudgetUpserter interface {
		UpsertBudget(ctx context.Context, target core.BudgetTarget) error
	}

	// CategoryReader lists the seeded category catalogs.
	CategoryReader interface {
		ListCategories(ctx context.Context) (income []string, expense []string, err error)
	}
)
