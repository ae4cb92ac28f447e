// Package sheets defines the port to the spreadsheet mirror. The mirror
// is write-only: the relational ledger stays the source of truth and the
// worker copies records over for the treasury team's shared workbook.
package sheets

import (
	"context"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// TransactionMirror appends one ledger record to the mirror.
type TransactionMirror interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
